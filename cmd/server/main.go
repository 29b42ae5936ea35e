package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"github.com/luminara-app/backend/conf"
	"github.com/luminara-app/backend/genai"
	"github.com/luminara-app/backend/http"
	"github.com/luminara-app/backend/media"
	mediahttp "github.com/luminara-app/backend/media/http"
	"github.com/luminara-app/backend/owner"
	ownerhttp "github.com/luminara-app/backend/owner/http"
	"github.com/luminara-app/backend/ratecount"
	"github.com/luminara-app/backend/s3bucket"
	"github.com/luminara-app/backend/secgate"
	"github.com/luminara-app/backend/session"
	sessionhttp "github.com/luminara-app/backend/session/http"
	"github.com/luminara-app/backend/solve"
	solvehttp "github.com/luminara-app/backend/solve/http"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	jwtKey := os.Getenv("JWT_KEY")
	if jwtKey == "" {
		slog.Error("JWT_KEY is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counter := newCounterStore()
	repos := newRepos(ctx)

	gateway := secgate.NewGateway(counter, repos.audit, secgate.ObfuscationCipher{})

	sessionMgr := session.NewManager(repos.session, gateway)
	stopWatcher := sessionMgr.StartExpiryWatcher(ctx)
	defer stopWatcher()

	ownerSrvc := owner.NewOwnerSrvc(repos.owner)

	mediaMgr := media.NewManager(repos.media, repos.blob, gateway)
	stopSweeper := mediaMgr.StartSweeper(ctx, media.DefaultSweepInterval, media.DefaultRetention)
	defer stopSweeper()

	aiClient := genai.New(
		envOr("GENAI_BASE_URL", "https://generativelanguage.googleapis.com"),
		conf.GetAiApiKeyFromEnv(),
		envOr("GENAI_MODEL", "gemini-1.5-flash"),
		conf.GetGenParamsFromFile(""),
	)

	solveSrvc := solve.NewService(repos.subm, ownerSrvc, mediaMgr, aiClient, gateway)

	httpServer := http.NewHttpServer(
		solvehttp.NewSolveHttpHandler(solveSrvc, sessionMgr),
		ownerhttp.NewOwnerHttpHandler(ownerSrvc, sessionMgr, []byte(jwtKey)),
		sessionhttp.NewSessionHttpHandler(sessionMgr),
		mediahttp.NewMediaHttpHandler(mediaMgr),
		gateway,
		[]byte(jwtKey),
	)
	defer httpServer.Stop()

	address := ":8080"
	log.Printf("Starting server on %s", address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(address)
	}()

	select {
	case err := <-errCh:
		log.Printf("Server stopped with error: %v", err)
	case <-ctx.Done():
		log.Printf("Received shutdown signal")
	}
}

// repos bundles every store the services need, picked per STORE_BACKEND.
type repos struct {
	subm    solve.SubmRepo
	session session.SessionRepo
	owner   owner.OwnerRepo
	media   media.MediaRepo
	audit   secgate.AuditRepo
	blob    media.BlobStore
}

func newRepos(ctx context.Context) repos {
	switch conf.GetStoreBackendFromEnv() {
	case "dynamodb":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		ddb := dynamodb.NewFromConfig(awsCfg)

		bucket := os.Getenv("MEDIA_S3_BUCKET")
		if bucket == "" {
			slog.Error("MEDIA_S3_BUCKET is not set")
			os.Exit(1)
		}

		return repos{
			subm:    solve.NewDynamoDbSubmTable(ddb, tableName("SUBM_TABLE", "luminara_submissions")),
			session: session.NewDynamoDbSessionTable(ddb, tableName("SESSION_TABLE", "luminara_sessions")),
			owner:   owner.NewDynamoDbOwnerTable(ddb, tableName("OWNER_TABLE", "luminara_owners")),
			media:   media.NewDynamoDbMediaTable(ddb, tableName("MEDIA_TABLE", "luminara_media")),
			audit:   secgate.NewDynamoDbAuditTable(ddb, tableName("AUDIT_TABLE", "luminara_audit")),
			blob:    s3bucket.NewS3BucketFromClient(s3.NewFromConfig(awsCfg), awsCfg.Region, bucket),
		}
	default:
		return repos{
			subm:    solve.NewInMemSubmRepo(),
			session: session.NewInMemSessionRepo(),
			owner:   owner.NewInMemOwnerRepo(),
			media:   media.NewInMemMediaRepo(),
			audit:   secgate.NewInMemAuditRepo(),
			blob:    media.NewLocalBlobStore("http://localhost:8080/blobs"),
		}
	}
}

func newCounterStore() secgate.CounterStore {
	addr := conf.GetRedisAddrFromEnv()
	if addr == "" {
		return ratecount.NewMemStore()
	}
	client, err := conf.NewRedisClient(addr)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	return ratecount.NewRedisStore(client)
}

func tableName(envVar, fallback string) string {
	if name := os.Getenv(envVar); name != "" {
		return name
	}
	return fallback
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
