package utils

import (
	"context"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"sahatak/config"
)

var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client. Push
// notifications are optional: with no credentials configured, FCMClient
// stays nil and sends are skipped.
func FirebaseInit() {
	credentials := config.AppConfig.FirebaseCredentials
	if credentials == "" {
		GetLogger().Warn("Firebase credentials not configured, push notifications disabled")
		return
	}

	ctx := context.Background()
	opt := option.WithCredentialsFile(credentials)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}

	FCMClient = client
}
