package main

import (
	"fmt"
	"os"

	"github.com/PaulDelamare/FoudViseur/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🔍 Vérification de la configuration...")

	// Charge le fichier .env s'il existe
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  fichier .env introuvable : %v\n", err)
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Printf("❌ Configuration invalide :\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration valide !")
	fmt.Printf("📋 Détails :\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Telegram Owner: %s\n", ownerLabel(cfg.TelegramOwnerID))
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.Gemini.APIKey))
	fmt.Printf("  - Gemini Model: %s\n", cfg.Gemini.Model)
	fmt.Printf("  - Edamam App ID: %s\n", cfg.Edamam.AppID)
	fmt.Printf("  - Edamam App Key: %s\n", maskToken(cfg.Edamam.AppKey))
	fmt.Printf("  - Edamam URL: %s\n", cfg.Edamam.BaseURL)
	fmt.Printf("  - DB Path: %s\n", cfg.DB.Path)
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s (db %d, clé %s, TTL %s)\n", cfg.Redis.Addr(), cfg.Redis.DB, cfg.Redis.StagingKey, cfg.Redis.StagingTTL)
		fmt.Printf("  - Redis Password: %s\n", maskToken(cfg.Redis.Password))
	} else {
		fmt.Printf("  - Redis: <désactivé, liste en mémoire>\n")
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<non défini>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func ownerLabel(id int64) string {
	if id == 0 {
		return "<tous les utilisateurs>"
	}
	return fmt.Sprint(id)
}
