package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/voxel-pathing/internal/logging"
	"github.com/annel0/voxel-pathing/internal/middleware"
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/pathing/coordinator"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/pathdump"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Navigator - то, чем API управляет. Реализуется coordinator.Coordinator.
type Navigator interface {
	SetGoalAndPath(g goals.Goal)
	Replan() error
	Cancel()
	Snapshot() coordinator.Snapshot
	CurrentPath() *calc.Path
}

// RestServer - отладочный HTTP API навигации
type RestServer struct {
	router   *gin.Engine
	nav      Navigator
	port     string
	metrics  *ServerMetrics
	webhooks *OutboundWebhookManager
	log      *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port        string                  // адрес, например ":8088"
	Navigator   Navigator               // координатор навигации
	Registerer  prometheus.Registerer   // куда регистрировать HTTP-метрики
	Gatherer    prometheus.Gatherer     // откуда отдавать /metrics
	Webhooks    *OutboundWebhookManager // необязательно
	Logger      *logging.Logger
	ServiceName string
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.ServiceName == "" {
		config.ServiceName = "voxel-pathing"
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.ServiceName))
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())

	promMw, err := middleware.NewPrometheusMiddleware("pathing_api", config.Registerer)
	if err != nil {
		return nil, err
	}
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	server := &RestServer{
		router:   router,
		nav:      config.Navigator,
		port:     config.Port,
		metrics:  NewServerMetrics(),
		webhooks: config.Webhooks,
		log:      config.Logger,
	}
	server.setupRoutes()
	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.Use(corsMiddleware())

	api := rs.router.Group("/api")
	{
		api.GET("/status", rs.handleStatus)
		api.POST("/goal", rs.handleSetGoal)
		api.POST("/replan", rs.handleReplan)
		api.POST("/cancel", rs.handleCancel)
		api.GET("/path", rs.handlePath)
		api.GET("/path/dump", rs.handlePathDump)
		api.GET("/events/kinds", rs.handleEventKinds)
	}

	if rs.webhooks != nil {
		hooks := api.Group("/webhooks")
		{
			hooks.GET("", rs.handleGetOutboundWebhooks)
			hooks.POST("", rs.handleCreateOutboundWebhook)
			hooks.GET("/:id", rs.handleGetOutboundWebhook)
			hooks.DELETE("/:id", rs.handleDeleteOutboundWebhook)
		}
	}

	rs.router.GET("/health", rs.handleHealth)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler { return rs.router }

// handleStatus отдаёт снимок координатора
func (rs *RestServer) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "ok",
		Data:    rs.nav.Snapshot(),
	})
}

// handleSetGoal задаёт цель и запускает поиск
func (rs *RestServer) handleSetGoal(c *gin.Context) {
	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: "Неверный формат запроса",
		})
		return
	}
	goal, err := req.Goal()
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	rs.nav.SetGoalAndPath(goal)
	rs.log.Info("🎯 Новая цель: %s", goal)

	c.JSON(http.StatusAccepted, GenericResponse{
		Success: true,
		Message: "Цель принята",
		Data:    gin.H{"goal": goal.String()},
	})
}

// handleReplan перестраивает путь к текущей цели
func (rs *RestServer) handleReplan(c *gin.Context) {
	err := rs.nav.Replan()
	switch {
	case errors.Is(err, coordinator.ErrNoGoal):
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Цель не задана"})
	case errors.Is(err, coordinator.ErrBusy):
		c.JSON(http.StatusConflict, GenericResponse{Success: false, Message: "Поиск уже выполняется"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: err.Error()})
	default:
		c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "Поиск запущен"})
	}
}

// handleCancel отменяет навигацию
func (rs *RestServer) handleCancel(c *gin.Context) {
	rs.nav.Cancel()
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Навигация отменена"})
}

// handlePath отдаёт исполняемый участок в JSON
func (rs *RestServer) handlePath(c *gin.Context) {
	p := rs.nav.CurrentPath()
	if p == nil {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Нет исполняемого пути"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: pathdump.FromPath(p)})
}

// handlePathDump отдаёт исполняемый участок сжатым дампом
func (rs *RestServer) handlePathDump(c *gin.Context) {
	p := rs.nav.CurrentPath()
	if p == nil {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Нет исполняемого пути"})
		return
	}
	data, err := pathdump.Encode(pathdump.FromPath(p))
	if err != nil {
		rs.log.Error("❌ Дамп пути: %v", err)
		c.JSON(http.StatusInternalServerError, GenericResponse{Success: false, Message: "Ошибка дампа"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="path.json.zst"`)
	c.Data(http.StatusOK, "application/zstd", data)
}

func (rs *RestServer) handleEventKinds(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: PathEventKinds()})
}

func (rs *RestServer) handleGetOutboundWebhooks(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: rs.webhooks.GetWebhooks()})
}

func (rs *RestServer) handleCreateOutboundWebhook(c *gin.Context) {
	var req OutboundWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный формат запроса"})
		return
	}
	hook := rs.webhooks.AddWebhook(req)
	rs.log.Info("Добавлен webhook %d (%s) → %s", hook.ID, hook.Name, hook.URL)
	c.JSON(http.StatusCreated, GenericResponse{Success: true, Message: "Webhook создан", Data: hook})
}

func (rs *RestServer) handleGetOutboundWebhook(c *gin.Context) {
	id, ok := parseWebhookID(c)
	if !ok {
		return
	}
	hook, found := rs.webhooks.GetWebhook(id)
	if !found {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Webhook не найден"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "ok", Data: hook})
}

func (rs *RestServer) handleDeleteOutboundWebhook(c *gin.Context) {
	id, ok := parseWebhookID(c)
	if !ok {
		return
	}
	if !rs.webhooks.DeleteWebhook(id) {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Webhook не найден"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Webhook удалён"})
}

func parseWebhookID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: "Неверный ID"})
		return 0, false
	}
	return id, true
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"time":    time.Now().Unix(),
		"state":   rs.nav.Snapshot().State,
		"process": rs.metrics.Collect(),
	})
}

// Start запускает сервер и останавливает его при отмене ctx
func (rs *RestServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		rs.log.Info("🌐 REST API слушает %s", rs.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	rs.log.Info("REST API остановлен")
	return nil
}
