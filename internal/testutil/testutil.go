package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

const emulatorProjectID = "demo-reminder-dispatch"

func SetupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, "redis:8-alpine")
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}

		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return client, cleanup
}

// SetupFirestoreEmulator connects to the emulator named by FIRESTORE_EMULATOR_HOST.
// Each call gets its own collection id so parallel tests never share documents.
func SetupFirestoreEmulator(ctx context.Context, t *testing.T) (*firestore.Client, string, func()) {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(ctx, emulatorProjectID)
	if err != nil {
		t.Skipf("failed to connect to firestore emulator: %v", err)
	}

	collection := fmt.Sprintf("reminders_%d", time.Now().UnixNano())

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close firestore client: %v", err)
		}
	}

	return client, collection, cleanup
}
