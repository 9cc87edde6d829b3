package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockledger/config"
	"stockledger/internal/api/adjustment"
	"stockledger/internal/api/alert"
	"stockledger/internal/api/product"
	"stockledger/internal/api/router"
	"stockledger/internal/api/stock"
	"stockledger/internal/api/supplier"
	"stockledger/internal/api/transfer"
	"stockledger/internal/api/user"
	"stockledger/internal/api/warehouse"
	"stockledger/internal/ledger"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/database"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/messaging"
	"stockledger/internal/pkg/token"
	"stockledger/internal/repository/alertrepo"
	"stockledger/internal/repository/memstore"
	"stockledger/internal/repository/productrepo"
	"stockledger/internal/repository/stockrepo"
	"stockledger/internal/repository/supplierrepo"
	"stockledger/internal/repository/userrepo"
	"stockledger/internal/repository/warehouserepo"
	"stockledger/internal/service/adjustmentservice"
	"stockledger/internal/service/alertservice"
	"stockledger/internal/service/productservice"
	"stockledger/internal/service/stockservice"
	"stockledger/internal/service/supplierservice"
	"stockledger/internal/service/transferservice"
	"stockledger/internal/service/userservice"
	"stockledger/internal/service/warehouseservice"
)

// storage reúne as portas de persistência do driver escolhido.
type storage struct {
	uow         ledger.UnitOfWork
	stock       ledger.StockReader
	transfers   transferservice.TransferReader
	adjustments adjustmentservice.AdjustmentReader
	alerts      alertservice.AlertStore
	recipients  alertservice.RecipientDirectory
	users       userservice.UserRepository
	warehouses  warehouseservice.WarehouseRepository
	products    productservice.ProductRepository
	suppliers   supplierservice.SupplierRepository
}

// @title StockLedger API
// @version 1.0
// @description Ledger de estoque multi-armazém com transferências, ajustes e alertas de estoque baixo.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		// As variáveis podem vir do ambiente (ex: Docker).
		logger.NewLogger("info").Warn("Arquivo .env não encontrado; usando apenas variáveis de ambiente.", nil)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Configuração inválida.", err)
	}
	log := logger.New(logger.Config{Env: cfg.Environment, Level: cfg.LogLevel})
	log.Info("Configurações carregadas.", map[string]interface{}{"storage": cfg.StorageDriver, "env": cfg.Environment})

	ctx := context.Background()

	// 1. Cache (Redis) opcional: sem ele, leituras vão direto ao ledger e o rate limit fica desligado.
	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("Redis indisponível; seguindo sem cache.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		} else {
			defer redisClient.Close()
			cacheClient = redisClient
			log.Info("Conexão Redis estabelecida.", nil)
		}
	}

	// 2. Persistência
	var store storage
	switch cfg.StorageDriver {
	case config.StorageMemory:
		mem := memstore.New(cfg.LockTimeout, cfg.DefaultLowThreshold)
		store = storage{
			uow: mem, stock: mem, transfers: mem, adjustments: mem, alerts: mem,
			recipients: mem, users: mem, warehouses: mem, products: mem, suppliers: mem,
		}
		log.Warn("Usando armazenamento em memória; os dados não sobrevivem a um restart.", nil)
	default:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.DefaultPool)
		if err != nil {
			log.Fatal("Falha ao conectar ao banco de dados.", err)
		}
		defer db.Close()
		log.Info("Conexão PostgreSQL estabelecida.", nil)

		if cfg.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				log.Fatal("Falha ao aplicar migrações.", err)
			}
			log.Info("Migrações aplicadas.", nil)
		}
		store = postgresStorage(db, cfg, cacheClient, log)
	}

	// 3. Ledger e serviços
	stockLedger := ledger.New(store.uow, store.stock, log)
	stockSvc := stockservice.NewService(stockLedger, cacheClient, cfg.StockCacheTTL, log)

	var notifier alertservice.Notifier = alertservice.LogNotifier{Logger: log}
	var publisher messaging.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = messaging.NewKafkaProducer(cfg.KafkaBrokers, cfg.StockAlertTopic)
		notifier = alertservice.PublisherNotifier{Publisher: publisher}
		log.Info("Alertas publicados no Kafka.", map[string]interface{}{"topic": cfg.StockAlertTopic})
	}
	dispatcher := alertservice.NewDispatcher(notifier, cfg.AlertQueueSize, log)
	dispatcher.Start(2)
	alertSvc := alertservice.NewService(store.alerts, store.recipients, dispatcher, log)

	stockLedger.OnCommit(stockSvc.InvalidateStock)
	stockLedger.OnCommit(alertSvc.OnStockCommitted)

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	handlers := router.Handlers{
		User:       user.NewHandler(userservice.NewService(store.users, tokenSvc, cfg.AdminEmails, log), log),
		Warehouse:  warehouse.NewHandler(warehouseservice.NewService(store.warehouses, log), log),
		Product:    product.NewHandler(productservice.NewService(store.products, log), log),
		Stock:      stock.NewHandler(stockSvc, log),
		Transfer:   transfer.NewHandler(transferservice.NewService(stockLedger, store.transfers, log), log),
		Adjustment: adjustment.NewHandler(adjustmentservice.NewService(stockLedger, store.adjustments, log), log),
		Alert:      alert.NewHandler(alertSvc, log),
		Supplier:   supplier.NewHandler(supplierservice.NewService(store.suppliers, log), log),
	}
	rl := router.RateLimit{Limit: cfg.RateLimitMaxRequests, Window: cfg.RateLimitPeriod}

	// 4. Servidor
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(handlers, tokenSvc, cacheClient, rl, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Servidor StockLedger ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}
	// Notificações pendentes são entregues antes de fechar o produtor.
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error("Fila de alertas não foi drenada a tempo.", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Falha ao fechar o produtor Kafka.", err)
		}
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}

func postgresStorage(db *sql.DB, cfg *config.Config, cacheClient cache.Client, log logger.Logger) storage {
	stockRepo := stockrepo.NewStockRepository(db, stockrepo.Options{
		DBTimeout:        cfg.DBTimeout,
		LockTimeout:      cfg.LockTimeout,
		MaxRetries:       cfg.TxMaxRetries,
		DefaultThreshold: cfg.DefaultLowThreshold,
	}, log)
	warehouseRepo := warehouserepo.NewWarehouseRepository(db, cfg.DBTimeout, log)

	return storage{
		uow:         stockRepo,
		stock:       stockRepo,
		transfers:   stockRepo,
		adjustments: stockRepo,
		alerts:      alertrepo.NewAlertRepository(db, cfg.DBTimeout, log),
		recipients:  warehouseRepo,
		users:       userrepo.NewUserRepository(db, cfg.DBTimeout, log),
		warehouses:  warehouseRepo,
		products:    productrepo.NewProductRepository(db, cacheClient, cfg.StockCacheTTL, cfg.DBTimeout, log),
		suppliers:   supplierrepo.NewSupplierRepository(db, cfg.DBTimeout, log),
	}
}
