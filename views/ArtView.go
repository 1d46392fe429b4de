package views

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/GrainArc/TrackArt/config"
	"github.com/GrainArc/TrackArt/models"
	"github.com/GrainArc/TrackArt/pipeline"
	"github.com/GrainArc/TrackArt/response"
	"github.com/GrainArc/TrackArt/services"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 16 << 20

type ArtHandler struct {
	art    *services.ArtService
	export *services.ExportService
}

func NewArtHandler(art *services.ArtService, export *services.ExportService) *ArtHandler {
	return &ArtHandler{
		art:    art,
		export: export,
	}
}

// readUpload 读取上传文件，返回名称（不含扩展名）与内容
func readUpload(c *gin.Context) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, errors.New("请选择要上传的文件")
	}
	if file.Size > maxUploadSize {
		return "", nil, errors.New("文件过大")
	}
	f, err := file.Open()
	if err != nil {
		return "", nil, errors.New("无法打开上传文件")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, errors.New("无法读取文件内容")
	}

	name := c.PostForm("name")
	if name == "" {
		name = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}
	return name, data, nil
}

func formFloat(c *gin.Context, key string, def float64) (float64, error) {
	v := c.PostForm(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

// placementFromForm 表单中的可选放置参数覆盖默认值
func (h *ArtHandler) placementFromForm(c *gin.Context) (services.Placement, error) {
	p := h.art.DefaultPlacement()
	var err error
	if p.SizeMeters, err = formFloat(c, "size_m", p.SizeMeters); err != nil {
		return p, err
	}
	if p.CenterLat, err = formFloat(c, "lat", p.CenterLat); err != nil {
		return p, err
	}
	if p.CenterLon, err = formFloat(c, "lon", p.CenterLon); err != nil {
		return p, err
	}
	n, err := formFloat(c, "interpolation", float64(p.Interpolation))
	if err != nil {
		return p, err
	}
	p.Interpolation = int(n)
	if p.SizeMeters <= 0 {
		return p, errors.New("size_m must be positive")
	}
	return p, nil
}

// CreateFromSvg 上传 SVG 创建编辑会话
// @Accept multipart/form-data
// @Param file formData file true "SVG 文件"
// @Param size_m formData number false "目标尺寸（米）"
// @Param lat formData number false "中心纬度"
// @Param lon formData number false "中心经度"
func (h *ArtHandler) CreateFromSvg(c *gin.Context) {
	name, data, err := readUpload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.placementFromForm(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sess, err := h.art.CreateFromSvg(name, data, p)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "会话已创建", sess.Summary(true))
}

// CreateFromGpx 上传 GPX 创建编辑会话
func (h *ArtHandler) CreateFromGpx(c *gin.Context) {
	name, data, err := readUpload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sess, err := h.art.CreateFromGpx(name, data)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "会话已创建", sess.Summary(true))
}

// GetSession 会话状态与最终轨迹
func (h *ArtHandler) GetSession(c *gin.Context) {
	sess, err := h.art.Session(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, sess.Summary(true))
}

// CloseSession 关闭会话
func (h *ArtHandler) CloseSession(c *gin.Context) {
	if err := h.art.Close(c.Param("id")); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.SuccessWithMessage(c, "会话已关闭", nil)
}

// applyEdit 执行编辑并返回状态，错误映射为 HTTP 状态码
func (h *ArtHandler) applyEdit(c *gin.Context, edit services.Edit) {
	sum, err := h.art.ApplyEdit(c.Param("id"), edit)
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, pipeline.ErrInvalidEdit):
		response.BadRequest(c, err.Error())
	case err != nil:
		response.InternalError(c, err.Error())
	default:
		response.Success(c, sum)
	}
}

// SetLength {length_km} 或 {slider}
func (h *ArtHandler) SetLength(c *gin.Context) {
	var req models.LengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	switch {
	case req.LengthKm != nil:
		h.applyEdit(c, services.Edit{Kind: services.EditLength, Value: *req.LengthKm})
	case req.Slider != nil:
		h.applyEdit(c, services.Edit{Kind: services.EditSlider, Value: float64(*req.Slider)})
	default:
		response.BadRequest(c, "length_km 或 slider 不能为空")
	}
}

// SetRotation {degrees}
func (h *ArtHandler) SetRotation(c *gin.Context) {
	var req models.RotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	h.applyEdit(c, services.Edit{Kind: services.EditRotation, Value: *req.Degrees})
}

// SetStretch {percent}
func (h *ArtHandler) SetStretch(c *gin.Context) {
	var req models.StretchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	h.applyEdit(c, services.Edit{Kind: services.EditStretch, Value: *req.Percent})
}

// Recenter {lat, lon}
func (h *ArtHandler) Recenter(c *gin.Context) {
	var req models.RecenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	h.applyEdit(c, services.Edit{Kind: services.EditRecenter, Lat: *req.Lat, Lon: *req.Lon})
}

// Translate {d_lat, d_lon}
func (h *ArtHandler) Translate(c *gin.Context) {
	var req models.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	h.applyEdit(c, services.Edit{Kind: services.EditTranslate, Lat: req.DLat, Lon: req.DLon})
}

// Drag {points:[{lat,lng}]}
func (h *ArtHandler) Drag(c *gin.Context) {
	var req models.DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	points, err := services.DragPoints(req.Points, req.GeoJSON)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.applyEdit(c, services.Edit{Kind: services.EditDrag, Points: points})
}

// SetState 一次设置目标长度、旋转、拉伸与偏移
func (h *ArtHandler) SetState(c *gin.Context) {
	var req pipeline.TransformState
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数格式错误: "+err.Error())
		return
	}
	h.applyEdit(c, services.Edit{Kind: services.EditState, State: req})
}

// Reset 恢复原始轨迹
func (h *ArtHandler) Reset(c *gin.Context) {
	h.applyEdit(c, services.Edit{Kind: services.EditReset})
}

// GeoJSON 最终轨迹 GeoJSON
func (h *ArtHandler) GeoJSON(c *gin.Context) {
	sess, err := h.art.Session(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.export.GeoJSON(sess))
}

// DownloadGpx 下载最终轨迹 GPX
func (h *ArtHandler) DownloadGpx(c *gin.Context) {
	sess, err := h.art.Session(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	data, name, err := h.export.Gpx(sess)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "application/gpx+xml", data)
}

// DownloadBundle 下载 gpx+geojson+dxf 压缩包
func (h *ArtHandler) DownloadBundle(c *gin.Context) {
	sess, err := h.art.Session(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	data, name, err := h.export.Bundle(sess)
	if err != nil {
		config.Log.Errorf("bundle session %s: %v", sess.ID, err)
		response.InternalError(c, "打包失败")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, "application/zip", data)
}

// Save 保存为作品
func (h *ArtHandler) Save(c *gin.Context) {
	project, err := h.art.Save(c.Param("id"))
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		response.NotFound(c, err.Error())
	case err != nil:
		response.InternalError(c, err.Error())
	default:
		response.SuccessWithMessage(c, "保存成功", gin.H{
			"id":          project.ID,
			"name":        project.Name,
			"length_km":   project.LengthKm,
			"point_count": project.PointCount,
		})
	}
}

// ListProjects 作品列表（分页）
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
func (h *ArtHandler) ListProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	items, total, err := h.art.ListProjects(page, pageSize)
	if err != nil {
		response.InternalError(c, "获取列表失败")
		return
	}

	response.Success(c, gin.H{
		"list":      items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func projectID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

// OpenProject 打开作品为新会话
func (h *ArtHandler) OpenProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	sess, err := h.art.OpenProject(id)
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		response.NotFound(c, err.Error())
	case err != nil:
		response.InternalError(c, err.Error())
	default:
		response.Success(c, sess.Summary(true))
	}
}

// DeleteProject 删除作品
func (h *ArtHandler) DeleteProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	err := h.art.DeleteProject(id)
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		response.NotFound(c, err.Error())
	case err != nil:
		response.InternalError(c, err.Error())
	default:
		response.SuccessWithMessage(c, "删除成功", nil)
	}
}
