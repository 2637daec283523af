package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilivestrong/phonebook/internal/persist"
	mq "github.com/ilivestrong/phonebook/internal/rabbitmq"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type (
	Options struct {
		AMQPAddress   string
		DB            persist.DBConfig
		CORSOrigins   []string
		DeveloperName string
		Verbose       bool
	}
)

const (
	LookupPort = 5001
	ManagePort = 5000
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault("MYSQL_HOST", "localhost")
	v.SetDefault("MYSQL_USER", "root")
	v.SetDefault("MYSQL_PASSWORD", "admin@123")
	v.SetDefault("MYSQL_DB", "test")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("DB_DRIVER", persist.DriverMySQL)
	v.SetDefault("SQLITE_PATH", "phonebook.db")
	v.SetDefault("AMQP_ADDRESS", "")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("DEVELOPER_NAME", "")
	v.AutomaticEnv()
	return v
}

// loadDotenv loads a .env file when present; the process environment wins.
func loadDotenv() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("failed to load .env: %v\n", err)
		}
	}
}

func loadOptions(v *viper.Viper) (*Options, error) {
	port, err := strconv.Atoi(strings.TrimSpace(v.GetString("MYSQL_PORT")))
	if err != nil {
		return nil, &configError{key: "MYSQL_PORT", err: err}
	}

	var origins []string
	for _, p := range strings.Split(v.GetString("CORS_ORIGIN"), ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}

	return &Options{
		AMQPAddress: v.GetString("AMQP_ADDRESS"),
		DB: persist.DBConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("MYSQL_HOST"),
			Port:       port,
			User:       v.GetString("MYSQL_USER"),
			Password:   v.GetString("MYSQL_PASSWORD"),
			Name:       v.GetString("MYSQL_DB"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		CORSOrigins:   origins,
		DeveloperName: v.GetString("DEVELOPER_NAME"),
		Verbose:       v.GetBool("verbose"),
	}, nil
}

type configError struct {
	key string
	err error
}

func (e *configError) Error() string {
	return "invalid " + e.key + ": " + e.err.Error()
}

func (e *configError) Unwrap() error { return e.err }

func bootDB(options *Options) *gorm.DB {
	dialector, err := persist.Dialector(options.DB)
	if err != nil {
		log.Fatalf("failed to open db connection, %v", err)
	}

	level := logger.Warn
	if options.Verbose {
		level = logger.Info
	}
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold: 1500 * time.Millisecond,
			LogLevel:      level,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gLogger})
	if err != nil {
		log.Fatalf("failed to open db connection, %v", err)
	}
	return db
}

func bootSchema(db *gorm.DB) {
	if err := persist.InitSchema(db); err != nil {
		log.Fatalf("failed to initialise phonebook schema, %v", err)
	}
}

func bootMQ(options *Options) mq.Publisher {
	if options.AMQPAddress == "" {
		return mq.NewNoopPublisher()
	}

	conn, err := amqp.Dial(options.AMQPAddress)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ, %v", err)
	}
	return mq.NewRecordPublisher(conn)
}
