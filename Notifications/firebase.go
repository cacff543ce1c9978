package Notifications

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"Taskforce/Models"
	"Taskforce/TaskEngine"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebasePush delivers worker notifications to the device registered via
// /api/UpdateToken.
type FirebasePush struct {
	client *messaging.Client
	ctx    context.Context
}

// InitFirebase initializes the messaging client from the service account
// credentials file (call once at startup).
func InitFirebase(credentialsFile string) (*FirebasePush, error) {
	ctx := context.Background()
	opt := option.WithCredentialsFile(credentialsFile)

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Messaging client: %v", err)
	}

	log.Println("Firebase initialized successfully")
	return &FirebasePush{client: client, ctx: ctx}, nil
}

// SendWorkerPush looks up the worker's registered token and sends the
// decision outcome.
func (f *FirebasePush) SendWorkerPush(n TaskEngine.WorkerNotification) error {
	if f.client == nil {
		return fmt.Errorf("firebase client not initialized")
	}

	var token Models.FCMToken
	if err := Models.DB.Where("worker_id = ?", n.WorkerID).First(&token).Error; err != nil {
		return fmt.Errorf("no registered device token for worker %d", n.WorkerID)
	}

	title, body := workerText(n)
	message := &messaging.Message{
		Token: token.Value,
		Data: map[string]string{
			"task_id": strconv.FormatUint(uint64(n.TaskID), 10),
			"outcome": n.Outcome,
			"comment": n.Comment,
		},
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
			Priority: "high",
		},
	}

	response, err := f.client.Send(f.ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %v", err)
	}
	log.Printf("FCM message sent to worker %d: %s", n.WorkerID, response)
	return nil
}
