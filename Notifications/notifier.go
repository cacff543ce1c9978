package Notifications

import (
	"fmt"
	"log"

	"Taskforce/TaskEngine"
)

// Dispatcher fans notification intents out to the enabled channels. Channel
// objects are nil when unconfigured. Delivery runs in the background and a
// failed send is logged, never propagated into the transition that emitted
// the intent.
type Dispatcher struct {
	Telegram *TelegramBot
	Slack    *SlackClient
	Push     *FirebasePush
}

func (d *Dispatcher) NotifyManager(n TaskEngine.ManagerNotification) {
	go func() {
		if d.Telegram != nil {
			if err := d.Telegram.SendManagerAlert(n); err != nil {
				log.Printf("Telegram manager notification failed for task %d: %v", n.TaskID, err)
			}
		}
		if d.Slack != nil {
			if _, err := d.Slack.SendMessage(d.Slack.ManagerChannel, managerText(n)); err != nil {
				log.Printf("Slack manager notification failed for task %d: %v", n.TaskID, err)
			}
		}
	}()
}

func (d *Dispatcher) NotifyWorker(n TaskEngine.WorkerNotification) {
	go func() {
		if d.Push != nil {
			if err := d.Push.SendWorkerPush(n); err != nil {
				log.Printf("Push notification failed for worker %d: %v", n.WorkerID, err)
			}
		}
	}()
}

func managerText(n TaskEngine.ManagerNotification) string {
	header := "Task submitted for approval"
	if n.Resubmission {
		header = "Task resubmitted for approval"
	}
	return fmt.Sprintf("%s\nTask #%d: %s\nWorker: %s\nPhotos: %d\nChecklist: %d/%d done",
		header, n.TaskID, n.TaskTitle, n.WorkerName, len(n.PhotoPaths), n.ChecklistDone, n.ChecklistTotal)
}

func workerText(n TaskEngine.WorkerNotification) (title, body string) {
	switch n.Outcome {
	case "approved":
		title = "Task approved"
		body = fmt.Sprintf("Task #%d \"%s\" was approved.", n.TaskID, n.TaskTitle)
	case "returned":
		title = "Task returned"
		body = fmt.Sprintf("Task #%d \"%s\" was returned: %s", n.TaskID, n.TaskTitle, n.Comment)
	case "photos_requested":
		title = "More photos requested"
		body = fmt.Sprintf("Task #%d \"%s\" needs additional photos.", n.TaskID, n.TaskTitle)
		if n.Comment != "" {
			body += " " + n.Comment
		}
	default:
		title = "Task update"
		body = fmt.Sprintf("Task #%d \"%s\": %s", n.TaskID, n.TaskTitle, n.Outcome)
	}
	return title, body
}
