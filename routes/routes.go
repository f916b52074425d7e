package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/controllers"
	"github.com/deependr20/hrms-sub001/middleware"
	"github.com/deependr20/hrms-sub001/store"
	"github.com/deependr20/hrms-sub001/workflow"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.Observe())

	registerValidators()

	tasks := &store.TaskStore{DB: db}
	employees := &store.EmployeeStore{DB: db}
	projects := &store.ProjectStore{DB: db}

	bus := workflow.NewBus()
	rollup := &workflow.Rollup{Tasks: tasks, Projects: projects}
	bus.Subscribe(rollup.Handle)

	authController := controllers.AuthController{DB: db}
	employeeController := controllers.EmployeeController{DB: db}
	taskController := controllers.TaskController{Tasks: tasks, Employees: employees, Bus: bus}
	projectController := controllers.ProjectController{Projects: projects}

	r.POST("/register", authController.Register)
	r.POST("/login", authController.Login)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/", middleware.AuthMiddleware())

	authed.GET("/employees",
		middleware.RoleMiddleware(constants.RoleAdmin, constants.RoleHR),
		employeeController.GetEmployees)
	authed.PUT("/employees/:id",
		middleware.RoleMiddleware(constants.RoleAdmin, constants.RoleHR),
		employeeController.UpdateEmployee)

	authed.POST("/tasks", taskController.CreateTask)
	authed.GET("/tasks", taskController.GetTasks)
	authed.GET("/tasks/dashboard", taskController.Dashboard)
	authed.GET("/tasks/:id", taskController.GetTask)
	authed.PUT("/tasks/:id", taskController.UpdateTask)
	authed.POST("/tasks/:id/comments", taskController.AddComment)

	authed.POST("/tasks/assign", taskController.AssignTask)
	authed.PUT("/tasks/assign", taskController.RespondAssignment)
	authed.PUT("/tasks/:id/progress", taskController.UpdateProgress)
	authed.POST("/tasks/:id/progress", taskController.AddTimeEntry)

	authed.GET("/projects/:id", projectController.GetProject)

	return r
}

// registerValidators installs the enum rules used by the request binding
// tags.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("taskpriority", func(fl validator.FieldLevel) bool {
		return constants.TaskPriority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("assignrole", func(fl validator.FieldLevel) bool {
		return constants.AssignmentRole(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("assigntype", func(fl validator.FieldLevel) bool {
		return constants.AssignmentType(fl.Field().String()).Valid()
	})
}
