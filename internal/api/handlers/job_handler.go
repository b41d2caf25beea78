package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apiutils "github.com/easayliu/emby-tv-organizer/internal/api/utils"
	"github.com/easayliu/emby-tv-organizer/internal/application/services/jobs"
)

// PreviewRequest 创建预览任务请求
type PreviewRequest struct {
	InputDir  string `json:"input_dir" binding:"required" example:"/downloads/tv"`
	OutputDir string `json:"output_dir" binding:"required" example:"/media/电视剧"`
}

// ExecuteRequest 执行任务请求
type ExecuteRequest struct {
	JobID     string          `json:"job_id" binding:"required"`
	Selection *jobs.Selection `json:"selection,omitempty"`
}

// SelectRequest 勾选标记变更请求
type SelectRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// CategoryRequest 分类覆盖请求，category为空串表示清除分类
type CategoryRequest struct {
	Category string `json:"category"`
}

// JobHandler 整理任务接口
type JobHandler struct {
	service *jobs.Service
}

// NewJobHandler 创建任务处理器
func NewJobHandler(service *jobs.Service) *JobHandler {
	return &JobHandler{service: service}
}

// CreatePreview 创建预览任务
// 异步运行整理流水线，立即返回pending状态的任务
func (h *JobHandler) CreatePreview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutils.BadRequest(c, "invalid request parameters: "+err.Error())
		return
	}

	j, err := h.service.CreatePreview(req.InputDir, req.OutputDir)
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, j)
}

// Execute 基于预览任务创建执行任务
// selection省略时执行全部节点
func (h *JobHandler) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutils.BadRequest(c, "invalid request parameters: "+err.Error())
		return
	}

	j, err := h.service.ExecuteJob(req.JobID, req.Selection)
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, j)
}

// GetJob 查询单个任务
func (h *JobHandler) GetJob(c *gin.Context) {
	j, err := h.service.Get(c.Param("id"))
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, j)
}

// ListJobs 列出所有未过期任务
func (h *JobHandler) ListJobs(c *gin.Context) {
	list, err := h.service.List()
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, list)
}

// SelectShow 修改预览树里节目级勾选标记
func (h *JobHandler) SelectShow(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutils.BadRequest(c, "invalid request parameters: "+err.Error())
		return
	}

	j, err := h.service.SetShowSelection(c.Param("id"), c.Param("show_id"), *req.Selected)
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, j)
}

// SelectSeason 修改预览树里季级勾选标记
func (h *JobHandler) SelectSeason(c *gin.Context) {
	seasonNumber, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		apiutils.BadRequest(c, "invalid season number: "+c.Param("n"))
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutils.BadRequest(c, "invalid request parameters: "+err.Error())
		return
	}

	j, err := h.service.SetSeasonSelection(c.Param("id"), c.Param("show_id"), seasonNumber, *req.Selected)
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, j)
}

// SetCategory 覆盖节目分类并重算目标路径
func (h *JobHandler) SetCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutils.BadRequest(c, "invalid request parameters: "+err.Error())
		return
	}

	j, err := h.service.SetCategory(c.Param("id"), c.Param("show_id"), req.Category)
	if err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, j)
}

// CancelJob 请求取消任务
func (h *JobHandler) CancelJob(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		apiutils.Error(c, err)
		return
	}
	apiutils.Success(c, gin.H{"cancelled": true})
}
