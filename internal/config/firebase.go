package config

import (
	"os"
)

const (
	firebaseProjectIDEnv       = "FIREBASE_PROJECT_ID"
	googleCloudProjectEnv      = "GOOGLE_CLOUD_PROJECT"
	firebaseCredentialsFileEnv = "FIREBASE_CREDENTIALS_FILE"
	firestoreDatabaseIDEnv     = "FIRESTORE_DATABASE_ID"
	firestoreEmulatorHostEnv   = "FIRESTORE_EMULATOR_HOST"
	pushDryRunEnv              = "PUSH_DRY_RUN"

	defaultFirestoreDatabaseID = "(default)"
)

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	DatabaseID      string
	EmulatorHost    string
	PushDryRun      bool
}

func LoadFirebaseConfig() *FirebaseConfig {
	projectID := os.Getenv(firebaseProjectIDEnv)
	if projectID == "" {
		projectID = os.Getenv(googleCloudProjectEnv)
	}

	databaseID := os.Getenv(firestoreDatabaseIDEnv)
	if databaseID == "" {
		databaseID = defaultFirestoreDatabaseID
	}

	return &FirebaseConfig{
		ProjectID:       projectID,
		CredentialsFile: os.Getenv(firebaseCredentialsFileEnv),
		DatabaseID:      databaseID,
		EmulatorHost:    os.Getenv(firestoreEmulatorHostEnv),
		PushDryRun:      os.Getenv(pushDryRunEnv) == "true",
	}
}

func (c *FirebaseConfig) UsesEmulator() bool {
	return c.EmulatorHost != ""
}
