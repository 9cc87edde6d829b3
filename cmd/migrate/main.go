package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"stockledger/config"
	"stockledger/internal/pkg/database"
	"stockledger/internal/pkg/logger"
)

func main() {
	log := logger.NewLogger("info")

	if err := godotenv.Load(); err != nil {
		log.Warn("Arquivo .env não encontrado; usando apenas variáveis de ambiente.", map[string]interface{}{"error": err.Error()})
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Configuração inválida.", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL é obrigatório para migrações.", fmt.Errorf("DATABASE_URL vazio"))
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "", "diretório com as migrações (padrão: migrações embutidas)")
	flag.Parse()

	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		log.Fatal("goose: falha ao conectar no DB.", err)
	}
	defer db.Close()

	goose.SetLogger(goose.NopLogger())

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	if err := database.RunGoose(ctx, db, command, migrationsDir, args...); err != nil {
		log.Error(fmt.Sprintf("goose %s falhou.", command), err)
		os.Exit(1)
	}
	log.Info(fmt.Sprintf("goose %s concluído.", command), nil)
}
