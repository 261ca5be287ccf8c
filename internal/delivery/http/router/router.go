// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"citysim/internal/delivery/http/middleware"
	"citysim/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	PlayerHandler   *handler.PlayerHandler
	PlotHandler     *handler.PlotHandler
	BusinessHandler *handler.BusinessHandler
	IncomeHandler   *handler.IncomeHandler
	TradeHandler    *handler.TradeHandler
	WalletHandler   *handler.WalletHandler
	DeviceHandler   *handler.DeviceHandler
	AdminHandler    *handler.AdminHandler
	StatsHandler    *handler.StatsHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	player         *handler.PlayerHandler
	plot           *handler.PlotHandler
	business       *handler.BusinessHandler
	income         *handler.IncomeHandler
	trade          *handler.TradeHandler
	wallet         *handler.WalletHandler
	device         *handler.DeviceHandler
	admin          *handler.AdminHandler
	stats          *handler.StatsHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		player:         params.PlayerHandler,
		plot:           params.PlotHandler,
		business:       params.BusinessHandler,
		income:         params.IncomeHandler,
		trade:          params.TradeHandler,
		wallet:         params.WalletHandler,
		device:         params.DeviceHandler,
		admin:          params.AdminHandler,
		stats:          params.StatsHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Public read-only routes
	e.GET("/api/plots/quote/:x/:y", r.plot.Quote)
	e.GET("/api/plots/:x/:y", r.plot.GetPlot)
	e.GET("/api/plots", r.plot.ListPlots)
	e.GET("/api/businesses/types", r.business.ListTypes)
	e.GET("/api/stats", r.stats.GameStats)
	e.GET("/api/stats/income-table", r.income.IncomeTable)
	e.GET("/api/leaderboard", r.player.Leaderboard)

	api := e.Group("/api", r.authMiddleware.Authenticate)
	{
		api.POST("/players", r.player.RegisterPlayer)
		api.GET("/players/me", r.player.GetMe)

		api.POST("/plots/purchase", r.plot.PurchasePlot)
		api.POST("/plots/resale", r.plot.ListResale)
		api.DELETE("/plots/resale/:id", r.plot.CancelResale)
		api.POST("/plots/buy-resale/:id", r.plot.BuyResale)

		api.POST("/businesses/build", r.business.BuildBusiness)
		api.GET("/businesses", r.business.ListMyBusinesses)
		api.GET("/businesses/:id", r.business.GetBusiness)
		api.DELETE("/businesses/:id", r.business.DemolishBusiness)

		api.POST("/income/collect/:id", r.income.CollectIncome)
		api.POST("/income/collect-all", r.income.CollectAll)
		api.GET("/income/pending", r.income.PendingIncome)

		api.POST("/trade/spot", r.trade.SpotTrade)
		api.POST("/trade/contract", r.trade.CreateContract)
		api.POST("/trade/contract/:id/accept", r.trade.AcceptContract)
		api.GET("/trade/contracts", r.trade.ListContracts)

		api.POST("/wallet/withdraw", r.wallet.RequestWithdrawal)
		api.GET("/wallet/transactions", r.wallet.ListTransactions)
		api.GET("/wallet/deposit-qr", r.wallet.DepositQR)

		api.POST("/devices", r.device.RegisterDevice)
		api.GET("/devices", r.device.ListDevices)
		api.PUT("/devices/:id/token", r.device.UpdateFCMToken)
		api.DELETE("/devices/:id", r.device.DeactivateDevice)
	}

	admin := e.Group("/admin", r.authMiddleware.Authenticate, r.authMiddleware.RequireAdmin())
	{
		admin.GET("/treasury", r.admin.Treasury)
		admin.GET("/treasury/health", r.admin.TreasuryHealth)
		admin.GET("/players", r.admin.ListPlayers)
		admin.GET("/transactions", r.admin.ListTransactions)
		admin.GET("/withdrawals", r.admin.ListWithdrawals)
		admin.POST("/withdrawals/:id/approve", r.admin.ApproveWithdrawal)
		admin.POST("/withdrawals/:id/reject", r.admin.RejectWithdrawal)
		admin.POST("/deposits/credit", r.admin.CreditDeposit)
		admin.POST("/sweep", r.admin.RunSweep)
	}
}
