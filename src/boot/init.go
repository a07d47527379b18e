package boot

import (
	"deskly/src/common"
	"deskly/src/db"
	"deskly/src/models"
	"log"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Office{},
		&models.Image{},
		&models.Reservation{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

var scheduler gocron.Scheduler

// InitScheduler starts the daily due-reservation sweep.
func InitScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return
	}
	j, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			log.Println("Running due reservations sweep...")
			if err := common.NotifyDueReservations(); err != nil {
				log.Printf("Due reservations sweep failed: %s\n", err.Error())
			}
		}),
	)
	if err != nil {
		log.Printf("Error scheduling due reservations sweep: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled due reservations sweep: %s\n", j.ID().String())
	scheduler = sched
	sched.Start()
}

func StopScheduler() {
	if scheduler == nil {
		return
	}
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("Error shutting down Scheduler: %s\n", err.Error())
	}
}
