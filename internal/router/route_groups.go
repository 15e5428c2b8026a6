package router

import (
	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/handlers"
	"shift_scheduler_backend/internal/middleware"
	"shift_scheduler_backend/internal/models"
)

// SetupAccountRoutes sets up registration, login and the caller's own account.
func SetupAccountRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	accountRoutes := group.Group("/Account")
	{
		accountRoutes.POST("/Register", authHandler.RegisterUser)
		accountRoutes.POST("/Login", authHandler.LoginUser)

		authRequiredRoutes := accountRoutes.Group("")
		authRequiredRoutes.Use(middleware.RequireAuth())
		{
			authRequiredRoutes.POST("/Logout", authHandler.LogoutUser)
			authRequiredRoutes.GET("/Me", authHandler.GetCurrentUser)
			authRequiredRoutes.POST("/Delete", authHandler.DeleteAccount)
		}
	}
}

// SetupShiftDetailRoutes sets up the shift detail routes. Reads are public;
// every form and write needs a signed-in user.
func SetupShiftDetailRoutes(group *gin.RouterGroup, h *handlers.ShiftDetailHandler) {
	detailRoutes := group.Group("/ShiftDetails")
	{
		detailRoutes.GET("/", h.GetShiftDetails)
		detailRoutes.GET("/Index", h.GetShiftDetails)
		detailRoutes.GET("/Details/:id", h.GetShiftDetailByID)

		authRequiredRoutes := detailRoutes.Group("")
		authRequiredRoutes.Use(middleware.RequireAuth())
		{
			authRequiredRoutes.GET("/Create", h.CreateForm)
			authRequiredRoutes.POST("/Create", h.CreateShiftDetail)
			authRequiredRoutes.GET("/Edit/:id", h.EditForm)
			authRequiredRoutes.POST("/Edit/:id", h.UpdateShiftDetail)
			authRequiredRoutes.GET("/Delete/:id", h.DeleteForm)
			authRequiredRoutes.POST("/Delete/:id", h.DeleteShiftDetail)
		}
	}
}

// SetupShiftRoutes sets up the shift routes.
func SetupShiftRoutes(group *gin.RouterGroup, h *handlers.ShiftHandler) {
	shiftRoutes := group.Group("/Shifts")
	{
		shiftRoutes.GET("/", h.GetShifts)
		shiftRoutes.GET("/Details/:id", h.GetShiftByID)

		authRequiredRoutes := shiftRoutes.Group("")
		authRequiredRoutes.Use(middleware.RequireAuth())
		{
			authRequiredRoutes.POST("/Create", h.CreateShift)
			authRequiredRoutes.POST("/Edit/:id", h.UpdateShift)
			authRequiredRoutes.POST("/Delete/:id", h.DeleteShift)
		}
	}
}

func SetupAvailabilityRoutes(group *gin.RouterGroup, h *handlers.AvailabilityHandler) {
	availabilityRoutes := group.Group("/Availabilities", middleware.RequireAuth())
	{
		availabilityRoutes.GET("/", h.GetAvailabilities)
		availabilityRoutes.POST("/Create", h.CreateAvailability)
		availabilityRoutes.POST("/Delete/:id", h.DeleteAvailability)
	}
}

func SetupPunchRoutes(group *gin.RouterGroup, h *handlers.PunchHandler) {
	punchRoutes := group.Group("/Punches", middleware.RequireAuth())
	{
		punchRoutes.GET("/", h.GetPunches)
		punchRoutes.POST("/In", h.PunchIn)
		punchRoutes.POST("/Out", h.PunchOut)
	}
}

// SetupPayStubRoutes sets up the pay stub routes. Issuing is manager only.
func SetupPayStubRoutes(group *gin.RouterGroup, h *handlers.PayStubHandler) {
	payStubRoutes := group.Group("/PayStubs", middleware.RequireAuth())
	{
		payStubRoutes.GET("/", h.GetPayStubs)
		payStubRoutes.GET("/Details/:id", h.GetPayStubByID)
		payStubRoutes.POST("/Create", middleware.RoleAuthMiddleware(models.RoleManager), h.CreatePayStub)
	}
}

// SetupEmployeeRoutes sets up the manager-only employee directory.
func SetupEmployeeRoutes(group *gin.RouterGroup, h *handlers.EmployeeHandler) {
	employeeRoutes := group.Group("/Employees", middleware.RequireAuth(), middleware.RoleAuthMiddleware(models.RoleManager))
	{
		employeeRoutes.GET("/", h.GetEmployees)
	}
}

func SetupReportRoutes(group *gin.RouterGroup, h *handlers.ReportHandler) {
	reportRoutes := group.Group("/Reports", middleware.RequireAuth(), middleware.RoleAuthMiddleware(models.RoleManager))
	{
		reportRoutes.GET("/Hours", h.GetHoursReport)
	}
}
