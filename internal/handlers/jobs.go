package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/DLXHub/API/internal/models"
	"github.com/DLXHub/API/internal/response"
	"github.com/DLXHub/API/internal/services/jobs"
)

type JobHandler struct {
	svc *jobs.Service
}

func NewJobHandler(svc *jobs.Service) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var input jobs.CreateJobInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Invalid request body")
	}

	job, err := h.svc.Create(c.UserContext(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(response.Ok(job))
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	job, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(job))
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	var status *models.JobStatus
	if q := c.Query("status"); q != "" {
		jobStatus := models.JobStatus(q)
		status = &jobStatus
	}

	jobList, err := h.svc.List(c.UserContext(), status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.Ok(jobList))
}

func (h *JobHandler) Start(c *fiber.Ctx) error {
	job, err := h.svc.Start(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage(job, "Job queued"))
}

func (h *JobHandler) Cancel(c *fiber.Ctx) error {
	job, err := h.svc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(response.OkMessage(job, "Job cancelled"))
}
