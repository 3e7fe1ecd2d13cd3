package views

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/GrainArc/TerraPrint/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ProgressUpdate 进度推送消息
type ProgressUpdate struct {
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
	Status   string  `json:"status"` // pending, running, completed, failed
}

// PrepareTask 全国底图预处理任务
type PrepareTask struct {
	TaskID    string     `json:"task_id"`
	Status    string     `json:"status"`
	Progress  float64    `json:"progress"`
	Message   string     `json:"message"`
	GlbURL    string     `json:"glb_url,omitempty"`
	StlURL    string     `json:"stl_url,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Error     string     `json:"error,omitempty"`

	// 内部使用
	mu          sync.RWMutex
	subscribers map[string]chan ProgressUpdate
}

// PrepareTaskManager 预处理任务管理器
type PrepareTaskManager struct {
	tasks map[string]*PrepareTask
	mu    sync.RWMutex
}

var prepareTaskManager = &PrepareTaskManager{
	tasks: make(map[string]*PrepareTask),
}

// AddTask 添加任务
func (tm *PrepareTaskManager) AddTask(task *PrepareTask) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.tasks[task.TaskID] = task
}

// GetTask 获取任务
func (tm *PrepareTaskManager) GetTask(taskID string) (*PrepareTask, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	task, ok := tm.tasks[taskID]
	return task, ok
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StartPrepare 启动全国模型预生成任务
// 以整个厄瓜多尔国界作为选区跑完整流水线，生成全国GLB/STL
func (uc *UserController) StartPrepare(c *gin.Context) {
	taskID := uuid.New().String()
	task := &PrepareTask{
		TaskID:      taskID,
		Status:      "pending",
		Message:     "Task created",
		StartTime:   time.Now(),
		subscribers: make(map[string]chan ProgressUpdate),
	}
	prepareTaskManager.AddTask(task)

	go uc.executePrepareTask(task)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Prepare task started successfully",
		"data": gin.H{
			"task_id": taskID,
		},
	})
}

// GetPrepareTaskStatus 查询预处理任务状态
func (uc *UserController) GetPrepareTaskStatus(c *gin.Context) {
	taskID := c.Param("taskId")

	task, ok := prepareTaskManager.GetTask(taskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Task not found",
		})
		return
	}

	task.mu.RLock()
	defer task.mu.RUnlock()

	response := gin.H{
		"task_id":    task.TaskID,
		"status":     task.Status,
		"progress":   task.Progress,
		"message":    task.Message,
		"start_time": task.StartTime,
	}
	if task.GlbURL != "" {
		response["glb_url"] = task.GlbURL
		response["stl_url"] = task.StlURL
	}
	if task.EndTime != nil {
		response["end_time"] = task.EndTime
		response["duration"] = task.EndTime.Sub(task.StartTime).String()
	}
	if task.Error != "" {
		response["error"] = task.Error
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

// PrepareWebSocket 预处理任务进度WebSocket
func (uc *UserController) PrepareWebSocket(c *gin.Context) {
	taskID := c.Param("taskId")

	task, ok := prepareTaskManager.GetTask(taskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Task not found",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	subscriberID := uuid.New().String()
	progressChan := make(chan ProgressUpdate, 100)

	task.mu.Lock()
	task.subscribers[subscriberID] = progressChan
	task.mu.Unlock()

	defer func() {
		task.mu.Lock()
		delete(task.subscribers, subscriberID)
		close(progressChan)
		task.mu.Unlock()
	}()

	// 先推当前状态
	task.mu.RLock()
	current := ProgressUpdate{
		Progress: task.Progress,
		Message:  task.Message,
		Status:   task.Status,
	}
	task.mu.RUnlock()
	if err := conn.WriteJSON(current); err != nil {
		log.Printf("Error sending initial status: %v", err)
		return
	}

	done := make(chan struct{})

	// 读取客户端消息的goroutine(用于检测连接断开)
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				log.Printf("Error sending progress update: %v", err)
				return
			}
			if update.Status == "completed" || update.Status == "failed" {
				time.Sleep(time.Second) // 给客户端一点时间接收消息
				return
			}
		case <-done:
			return
		}
	}
}

// executePrepareTask 执行全国模型预生成
func (uc *UserController) executePrepareTask(task *PrepareTask) {
	updatePrepareStatus(task, "running", 0.05, "Loading country boundary")

	polygon := Terrain.NewClipPolygon(uc.Boundary.Geometry())

	updatePrepareStatus(task, "running", 0.15, "Merging elevation tiles")
	solid, err := uc.Mesh.BuildSelection(polygon)
	if err != nil {
		failPrepareTask(task, err)
		return
	}

	updatePrepareStatus(task, "running", 0.85, "Exporting GLB and STL")
	jobDir := filepath.Join(config.OutputDir, task.TaskID)
	result, err := uc.Mesh.ExportMesh(solid, jobDir)
	if err != nil {
		failPrepareTask(task, err)
		return
	}

	endTime := time.Now()
	task.mu.Lock()
	task.EndTime = &endTime
	task.GlbURL = fmt.Sprintf("/outputs/%s/%s", task.TaskID, result.GlbFile)
	task.StlURL = fmt.Sprintf("/outputs/%s/%s", task.TaskID, result.StlFile)
	task.mu.Unlock()

	updatePrepareStatus(task, "completed", 1.0, "Country model generated successfully")
}

// failPrepareTask 标记任务失败并广播
func failPrepareTask(task *PrepareTask, err error) {
	endTime := time.Now()
	task.mu.Lock()
	task.Error = err.Error()
	task.EndTime = &endTime
	task.mu.Unlock()

	updatePrepareStatus(task, "failed", 0, fmt.Sprintf("Task failed: %v", err))
}

// updatePrepareStatus 更新任务状态并广播给所有订阅者
func updatePrepareStatus(task *PrepareTask, status string, progress float64, message string) {
	task.mu.Lock()
	task.Status = status
	task.Progress = progress
	task.Message = message
	task.mu.Unlock()

	update := ProgressUpdate{Progress: progress, Message: message, Status: status}
	task.mu.RLock()
	defer task.mu.RUnlock()
	for _, ch := range task.subscribers {
		select {
		case ch <- update:
		default:
			// 通道已满，跳过
		}
	}
}
