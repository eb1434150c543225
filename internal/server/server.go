package server

import (
	"context"
	"food-marketplace/internal/handler"
	appmiddleware "food-marketplace/internal/middleware"
	"food-marketplace/internal/service"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Services struct {
	Cart      service.CartService
	Checkout  service.CheckoutService
	Order     service.OrderService
	User      service.UserService
	Item      service.ItemService
	Nutrition service.NutritionService
}

type Server struct {
	echo         *echo.Echo
	registry     *prometheus.Registry
	cartHandler  *handler.CartHandler
	orderHandler *handler.OrderHandler
	userHandler  *handler.UserHandler
	itemHandler  *handler.ItemHandler
}

func NewServer(services Services, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := appmiddleware.NewServerMetrics(registry, "api")

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	}))
	e.Use(middleware.CORS())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware("marketplace-api")))
	e.Use(metrics.Middleware())

	s := &Server{
		echo:         e,
		registry:     registry,
		cartHandler:  handler.NewCartHandler(services.Cart),
		orderHandler: handler.NewOrderHandler(services.Checkout, services.Order),
		userHandler:  handler.NewUserHandler(services.User, services.Nutrition),
		itemHandler:  handler.NewItemHandler(services.Item),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// -------- users --------
	e.POST("/register", s.userHandler.Register)
	e.POST("/login", s.userHandler.Login)
	e.GET("/profile/:email", s.userHandler.Profile)
	e.POST("/workoutsplit", s.userHandler.UpdateWorkoutSplit)
	e.GET("/protein/:email", s.userHandler.DailyProtein)
	e.POST("/workoutplan", s.userHandler.WorkoutPlan)

	// -------- items --------
	e.POST("/additem", s.itemHandler.AddItem)

	// -------- cart --------
	e.POST("/addtocart", s.cartHandler.AddToCart)
	e.POST("/removefromcart", s.cartHandler.RemoveFromCart)
	e.POST("/updatecartquantity", s.cartHandler.UpdateCartQuantity)

	// -------- orders --------
	e.POST("/placeorder", s.orderHandler.PlaceOrder)
	e.POST("/acceptorder", s.orderHandler.AcceptOrder)
	e.POST("/orders/deliver/:orderId", s.orderHandler.DeliverOrder)
	e.POST("/sendlocation", s.orderHandler.SendLocation)
	e.GET("/receivedorders/pending-count/:sellerEmail", s.orderHandler.PendingCount)
	e.GET("/receivedorders/:sellerEmail", s.orderHandler.ReceivedOrders)
	e.GET("/userorders/:userEmail", s.orderHandler.UserOrders)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
