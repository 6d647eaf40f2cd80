package router

import (
	"time"

	"github.com/ofabiomaran/Loja/internal/config"
	"github.com/ofabiomaran/Loja/internal/handler"
	"github.com/ofabiomaran/Loja/internal/middleware"
	"github.com/ofabiomaran/Loja/internal/repository"
	"github.com/ofabiomaran/Loja/internal/service"
	"github.com/ofabiomaran/Loja/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built by main. Only Store is required.
type Deps struct {
	Store       *repository.Store
	Dispatcher  *worker.Dispatcher // nil when events are disabled
	DB          *gorm.DB           // set for the postgres storage driver
	Redis       *redis.Client      // set when redis storage or events are on
	RateLimiter *middleware.RateLimiter
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← Persister
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(1000, time.Minute)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecureHeaders(cfg.Env == "production"))
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(limiter.Handler())

	// ── Services ─────────────────────────────────────────────────────────────
	store := deps.Store
	productSvc := service.NewProductService(store, cfg.LowStockThreshold)
	cartSvc := service.NewCartService(store, cfg.LowStockThreshold)
	saleSvc := service.NewSaleService(store, deps.Dispatcher, cfg.LowStockThreshold)
	registerSvc := service.NewCashRegisterService(store, deps.Dispatcher)
	settingsSvc := service.NewSettingsService(store)
	reportSvc := service.NewReportService(store, cfg.LowStockThreshold)

	// ── Handlers ─────────────────────────────────────────────────────────────
	productosH := handler.NewProductosHandler(productSvc)
	carritoH := handler.NewCarritoHandler(cartSvc)
	ventasH := handler.NewVentasHandler(saleSvc)
	cajaH := handler.NewCajaHandler(registerSvc)
	configuracionH := handler.NewConfiguracionHandler(settingsSvc)
	reportesH := handler.NewReportesHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(cfg.StorageDriver, deps.DB, deps.Redis))

	v1 := r.Group("/v1")
	{
		prods := v1.Group("/productos")
		{
			prods.GET("", productosH.Listar)
			prods.GET("/alertas", productosH.Alertas)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		carrito := v1.Group("/carrito")
		{
			carrito.GET("", carritoH.Obtener)
			carrito.POST("/items", carritoH.AgregarItem)
			carrito.PATCH("/items/:producto_id", carritoH.ActualizarItem)
			carrito.DELETE("/items/:producto_id", carritoH.QuitarItem)
			carrito.POST("/descuento", carritoH.AplicarDescuento)
			carrito.DELETE("/descuento", carritoH.QuitarDescuento)
			carrito.DELETE("", carritoH.Vaciar)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.Finalizar)
			ventas.GET("", ventasH.Listar)
			ventas.GET("/:id", ventasH.ObtenerPorID)
			ventas.PUT("/:id", ventasH.Editar)
			ventas.DELETE("/:id", ventasH.Anular)
		}

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/activa", cajaH.Activa)
			caja.GET("/resumen", cajaH.Resumen)
			caja.GET("/historial", cajaH.Historial)
			caja.GET("/:id/reporte", cajaH.Reporte)
		}

		v1.GET("/configuracion/tarifas", configuracionH.ObtenerTarifas)
		v1.PUT("/configuracion/tarifas", configuracionH.ActualizarTarifas)

		v1.GET("/reportes/ventas", reportesH.Ventas)
		v1.GET("/reportes/fechas", reportesH.Fechas)
	}

	return r
}
