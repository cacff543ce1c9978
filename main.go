package main

import (
	"log"
	"os"

	"Taskforce/Constants"
	"Taskforce/CronJobs"
	"Taskforce/FiberConfig"
	"Taskforce/Geo"
	"Taskforce/Models"
	"Taskforce/Notifications"
	"Taskforce/TaskEngine"
)

func main() {
	setupLogging()
	Constants.LoadEnv()
	Models.Connect()

	locator := Geo.NewClient()
	dispatcher := &Notifications.Dispatcher{}

	engine := TaskEngine.NewEngine(
		Models.NewTaskStore(Models.DB),
		Models.NewRateStore(Models.DB),
		dispatcher,
		locator,
	)

	if token := Constants.TelegramBotToken(); token != "" {
		bot, err := Notifications.NewTelegramBot(token, Constants.TelegramManagerChatID(), engine)
		if err != nil {
			log.Println("Telegram bot disabled:", err)
		} else {
			dispatcher.Telegram = bot
			go bot.Listen()
		}
	}

	if token := Constants.SlackBotToken(); token != "" {
		dispatcher.Slack = Notifications.NewSlackClient(token, Constants.SlackManagerChannel())
	}

	if push, err := Notifications.InitFirebase(Constants.FirebaseCredentialsFile()); err != nil {
		log.Println("Firebase push disabled:", err)
	} else {
		dispatcher.Push = push
	}

	scheduler := CronJobs.NewScheduler(engine, dispatcher)
	if err := scheduler.Start(); err != nil {
		log.Println("Failed to start scheduler:", err)
	}

	FiberConfig.FiberConfig(engine, locator)
}

func setupLogging() {
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
