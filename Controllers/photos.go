package Controllers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"Taskforce/Constants"
	"Taskforce/Models"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Uploaded photos are resized down to this bound before storage; originals
// from phone cameras are far too large to keep.
const maxPhotoDimension = 1600

// UploadTaskPhoto accepts a multipart photo for a task. Form fields:
// "photo" (file), "kind" ("before" or "after", default "after").
func (h *TaskHandler) UploadTaskPhoto(c *fiber.Ctx) error {
	var task Models.Task
	if err := h.DB.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"message": "Task not found",
		})
	}

	kind := c.FormValue("kind", "after")
	if kind != "before" && kind != "after" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Photo kind must be 'before' or 'after'",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Photo file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to read uploaded file",
		})
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Uploaded file is not a valid image",
		})
	}

	if img.Bounds().Dx() > maxPhotoDimension || img.Bounds().Dy() > maxPhotoDimension {
		img = imaging.Fit(img, maxPhotoDimension, maxPhotoDimension, imaging.Lanczos)
	}

	dir := Constants.PhotoStorageDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to prepare photo storage",
		})
	}

	fileName := fmt.Sprintf("%d_%s_%s.jpg", task.ID, kind, uuid.NewString())
	fullPath := filepath.Join(dir, fileName)
	if err := imaging.Save(img, fullPath, imaging.JPEGQuality(80)); err != nil {
		log.Println(err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to store photo",
		})
	}

	photo := Models.PhotoRecord{
		TaskID:     task.ID,
		Kind:       kind,
		FilePath:   fullPath,
		UploadedAt: time.Now(),
	}
	if err := h.DB.Create(&photo).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to record photo",
		})
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Photo uploaded successfully",
		"photo":   photo,
	})
}

func (h *TaskHandler) GetTaskPhotos(c *fiber.Ctx) error {
	var photos []Models.PhotoRecord
	if err := h.DB.Where("task_id = ?", c.Params("id")).Order("uploaded_at ASC").Find(&photos).Error; err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to fetch photos",
		})
	}
	return c.JSON(photos)
}
