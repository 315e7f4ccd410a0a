package storage

import (
	"log"
	"time"

	"github.com/UnendingLoop/Watermarker/internal/storage/miniostorage"
	"github.com/wb-go/wbf/config"
)

func NewTaskStorage(cfg *config.Config, delay time.Duration) *miniostorage.MinioTaskStorage {
	success := false
	var client *miniostorage.MinioTaskStorage
	var err error

	for !success {
		log.Println("Connecting to object storage...")
		client, err = miniostorage.NewMinioClient(cfg)
		if err != nil {
			log.Printf("Failed to init connection to object storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
			continue
		}
		log.Println("Successfully connected to object storage!")
		success = true
	}

	return client
}
