package testutil

import (
	"os"
	"testing"
	"time"
)

// TestEnv points the suite at running services. Each service listens on its
// own URL; TEST_SERVER_URL is the bookings service and gates the whole suite.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	BookingsURL  string
	RoomsURL     string
	UsersURL     string
	FoodURL      string
	HMACSecret   string
	Issuer       string
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	bookingsURL := os.Getenv("TEST_SERVER_URL")
	if bookingsURL == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		BookingsURL:  bookingsURL,
		RoomsURL:     getEnv("TEST_ROOMS_URL", bookingsURL),
		UsersURL:     getEnv("TEST_USERS_URL", bookingsURL),
		FoodURL:      getEnv("TEST_FOOD_URL", bookingsURL),
		HMACSecret:   getEnv("TEST_AUTH_HMAC_SECRET", DefaultHMACSecret),
		Issuer:       os.Getenv("TEST_AUTH_ISSUER"),
	}
}

// Setup clears bookings, food orders and users, leaving the seeded rooms and menu in place, and waits
// for every service to report healthy.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollection(t, BookingsCollection)
	mongo.CleanCollection(t, FoodOrdersCollection)
	mongo.CleanCollection(t, UsersCollection)

	for _, url := range []string{e.BookingsURL, e.RoomsURL, e.UsersURL, e.FoodURL} {
		NewClient(url).WaitForHealthy(t, DefaultHealthCheckTimeout)
	}

	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollection(t, BookingsCollection)
		mongo.CleanCollection(t, FoodOrdersCollection)
		mongo.CleanCollection(t, UsersCollection)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

const (
	DefaultHealthCheckTimeout = 30 * time.Second
	DefaultHMACSecret         = "integration-secret"
)
