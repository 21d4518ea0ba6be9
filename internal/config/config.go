package config

import (
	"os"
	"strconv"
)

type Config struct {
	MongoAddress    string
	MongoPort       string
	MongoDB         string
	MongoUsername   string
	MongoPassword   string
	Port            string
	BankFeedURL     string
	OperatorWorkers int
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		MongoAddress:    "localhost",
		MongoPort:       "27017",
		MongoDB:         "ledger",
		MongoUsername:   "",
		MongoPassword:   "",
		Port:            "9446",
		BankFeedURL:     "http://localhost:9447/feed",
		OperatorWorkers: 4,
	}

	envMongoAddress := os.Getenv("MONGO_ADDRESS")
	envMongoPort := os.Getenv("MONGO_PORT")
	envMongoDB := os.Getenv("MONGO_DB")
	envMongoUsername := os.Getenv("MONGO_USERNAME")
	envMongoPassword := os.Getenv("MONGO_PASSWORD")
	envPort := os.Getenv("PORT")
	envBankFeedURL := os.Getenv("BANK_FEED_URL")
	envOperatorWorkers := os.Getenv("OPERATOR_WORKERS")

	if len(envMongoAddress) != 0 {
		env.MongoAddress = envMongoAddress
	}

	if len(envMongoPort) != 0 {
		env.MongoPort = envMongoPort
	}

	if len(envMongoDB) != 0 {
		env.MongoDB = envMongoDB
	}

	if len(envMongoUsername) != 0 {
		env.MongoUsername = envMongoUsername
	}

	if len(envMongoPassword) != 0 {
		env.MongoPassword = envMongoPassword
	}

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envBankFeedURL) != 0 {
		env.BankFeedURL = envBankFeedURL
	}

	if len(envOperatorWorkers) != 0 {
		workers, err := strconv.Atoi(envOperatorWorkers)
		if err == nil && workers > 0 {
			env.OperatorWorkers = workers
		}
	}

	return &env, nil
}

// MongoURI assembles the connection string from the individual settings.
func (c *Config) MongoURI() string {
	if c.MongoUsername != "" && c.MongoPassword != "" {
		return "mongodb://" + c.MongoUsername + ":" + c.MongoPassword + "@" +
			c.MongoAddress + ":" + c.MongoPort + "/" + c.MongoDB + "?authSource=admin"
	}
	return "mongodb://" + c.MongoAddress + ":" + c.MongoPort + "/" + c.MongoDB
}
