package worker

import (
	"fmt"
	"net/http"

	"camwatch/internal/jobmeta"

	"github.com/gin-gonic/gin"
)

type StartRequest struct {
	CommandLists [][]string         `json:"commandLists" binding:"required"`
	Jobs         []jobmeta.CameraJob `json:"jobs" binding:"required"`
}

type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type Message struct {
	Message string `json:"message"`
}

func respondSuccess(c *gin.Context, code int, data any) {
	c.JSON(code, Response{Status: "success", Data: data})
}

func respondFail(c *gin.Context, code int, msg string) {
	c.JSON(code, Response{Status: "fail", Data: Message{Message: msg}})
}

type Handler struct {
	orch *Orchestrator
}

func NewHandler(orch *Orchestrator) *Handler {
	return &Handler{orch: orch}
}

// StartContainers spawns one detection container per submitted job. The
// command lists ride alongside the jobs: commandLists[i] is the argv that
// launches jobs[i].
func (h *Handler) StartContainers(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.CommandLists) != len(req.Jobs) {
		respondFail(c, http.StatusBadRequest,
			fmt.Sprintf("got %d command lists for %d jobs", len(req.CommandLists), len(req.Jobs)))
		return
	}
	for i := range req.Jobs {
		req.Jobs[i].Command = req.CommandLists[i]
	}

	if err := h.orch.Start(c.Request.Context(), req.Jobs); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	respondSuccess(c, http.StatusOK, Message{Message: "Commands are executed successfully!"})
}

// StopContainers tears down every tracked container. Partial failures still
// count as success: the sweep keeps going and the metadata file is cleared
// regardless, so the response only fails when the file itself cannot be
// rewritten.
func (h *Handler) StopContainers(c *gin.Context) {
	report, err := h.orch.Stop(c.Request.Context())
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	respondSuccess(c, http.StatusOK, Message{
		Message: fmt.Sprintf("Containers are stopped successfully! (removed %d, failed %d)",
			report.Removed, len(report.Failures)),
	})
}

// GetContainers reports the jobs currently recorded in the metadata store.
func (h *Handler) GetContainers(c *gin.Context) {
	jobs := h.orch.Tracked()
	if jobs == nil {
		jobs = []jobmeta.CameraJob{}
	}
	respondSuccess(c, http.StatusOK, jobs)
}

func (h *Handler) Hello(c *gin.Context) {
	respondSuccess(c, http.StatusOK, Message{Message: "Hello from worker!"})
}

func (h *Handler) Verify(c *gin.Context) {
	respondSuccess(c, http.StatusOK, Message{Message: "Worker is up and running!"})
}
