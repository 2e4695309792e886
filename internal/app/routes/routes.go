package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/gradedesk/internal/app/controllers"
	"github.com/yigit/gradedesk/internal/pkg/websocket"
)

// SetupRouter configures all application routes. session resolves the
// caller's workspace and is applied to every route that reads or writes one.
func SetupRouter(
	router *gin.Engine,
	consoleController *controllers.ConsoleController,
	apiController *controllers.APIController,
	events *websocket.Handler,
	session gin.HandlerFunc,
) {
	// --- HTML console ---
	console := router.Group("")
	console.Use(session)
	{
		console.GET("/", consoleController.Index)
		console.GET("/views/:view", consoleController.SwitchView)
		console.POST("/views/:view", consoleController.SwitchView)

		console.POST("/students/search", consoleController.SearchStudents)
		console.POST("/students", consoleController.CreateStudent)
		console.POST("/students/import", consoleController.ImportStudents)
		console.POST("/courses", consoleController.CreateCourse)
		console.POST("/results", consoleController.CreateResult)

		console.POST("/gradesheet", consoleController.FetchGradeSheet)
		console.GET("/gradesheet/export", consoleController.ExportGradeSheet)
	}

	// --- JSON console API ---
	api := router.Group("/api/console")
	{
		api.GET("/backend", apiController.ProbeBackend)

		withSession := api.Group("")
		withSession.Use(session)
		{
			withSession.GET("/workspace", apiController.GetWorkspace)
			withSession.GET("/status", apiController.GetStatus)
			withSession.GET("/events", events.HandleConnection)
		}
	}
}
