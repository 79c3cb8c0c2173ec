package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/satyajeet03/rentApp/authorization"
	"github.com/satyajeet03/rentApp/cache"
	"github.com/satyajeet03/rentApp/casbinAuthorization"
	"github.com/satyajeet03/rentApp/handlers"
	application "github.com/satyajeet03/rentApp/service"
	"github.com/satyajeet03/rentApp/startup/config"
	"github.com/satyajeet03/rentApp/storage"
	"github.com/satyajeet03/rentApp/store"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/rent.log"
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := fmt.Sprintf("[%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Message,
	)

	return []byte(msg), nil
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		Logger.Warnf("Failed to create rotatelogs hook, logging to stdout: %v", err)
		Logger.SetOutput(os.Stdout)
	} else {
		Logger.SetOutput(writer)
	}

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store.GetClientWithHTTPConfig(server.config.RentDBHost, server.config.RentDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initRedisClient() *redis.Client {
	client, err := store.GetRedisClient(server.config.CacheHost, server.config.CachePort)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initTokenService() *authorization.TokenService {
	lifetime := authorization.DefaultTokenLifetime
	if server.config.TokenLifetime != "" {
		hours, err := strconv.Atoi(server.config.TokenLifetime)
		if err == nil && hours > 0 {
			lifetime = time.Duration(hours) * time.Hour
		}
	}

	tokens, err := authorization.NewTokenService([]byte(server.config.SecretKey), lifetime)
	if err != nil {
		log.Fatal(err)
	}
	return tokens
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("rent_service")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	indexCtx, cancelIndexes := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIndexes()
	server.ensureIndexes(indexCtx, mongoClient)

	redisClient := server.initRedisClient()
	listingCache := cache.New(redisClient, Logger, tracer)
	listingCache.Ping()

	userStore := store.NewUserMongoDBStore(mongoClient, tracer)
	propertyStore := store.NewPropertyMongoDBStore(mongoClient, tracer)
	interestStore := store.NewInterestMongoDBStore(mongoClient, tracer)

	imageStorage, err := storage.New(ctx, server.config.StorageRegion, server.config.StorageBucket, Logger, tracer)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	tokens := server.initTokenService()

	authService := application.NewAuthService(userStore, tokens, tracer, Logger)
	propertyService := application.NewPropertyService(propertyStore, userStore, listingCache, tracer, Logger)
	interestService := application.NewInterestService(interestStore, propertyStore, tracer, Logger)
	uploadService := application.NewUploadService(imageStorage, tracer, Logger)

	authHandler := handlers.NewAuthHandler(authService, tracer, Logger)
	propertyHandler := handlers.NewPropertyHandler(propertyService, tracer, Logger)
	interestHandler := handlers.NewInterestHandler(interestService, tracer, Logger)
	uploadHandler := handlers.NewUploadHandler(uploadService, tracer, Logger)

	enforcer, err := casbinAuthorization.InitializeEnforcer(server.config.CasbinModel, server.config.CasbinPolicy)
	if err != nil {
		log.Fatal(err)
	}

	protect := []mux.MiddlewareFunc{
		authorization.Middleware(tokens, userStore, Logger),
		casbinAuthorization.CasbinMiddleware(enforcer, Logger),
	}

	router := mux.NewRouter()
	router.Use(MiddlewareContentTypeSet)
	router.Use(requestLoggingMiddleware)

	authHandler.Init(router.PathPrefix("/auth").Subrouter())
	propertyHandler.Init(router.PathPrefix("/properties").Subrouter(), protect...)
	interestHandler.Init(router.PathPrefix("/interests").Subrouter(), protect...)
	uploadHandler.Init(router.PathPrefix("/upload-images").Subrouter(), protect...)

	server.start(router)
}

func (server *Server) ensureIndexes(ctx context.Context, client *mongo.Client) {
	if err := store.EnsureUserIndexes(ctx, client); err != nil {
		log.Printf("error creating user indexes: %v", err)
	}
	if err := store.EnsurePropertyIndexes(ctx, client); err != nil {
		log.Printf("error creating property indexes: %v", err)
	}
	if err := store.EnsureInterestIndexes(ctx, client); err != nil {
		log.Printf("error creating interest indexes: %v", err)
	}
}

func (server *Server) start(router *mux.Router) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: router,
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("rent_service"),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}

const maxJSONBody = 10 << 20

func requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		Logger.Infof("Method [%s] - Hit path : %s (%d bytes)", h.Method, h.URL.Path, h.ContentLength)

		if strings.HasPrefix(h.Header.Get("Content-Type"), "application/json") {
			h.Body = http.MaxBytesReader(rw, h.Body, maxJSONBody)
		}
		next.ServeHTTP(rw, h)
	})
}
