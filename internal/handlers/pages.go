package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmate-dev/taskmate/internal/utils"
)

// Page handlers only render templates; every piece of task data on a
// page is fetched from the JSON API by the page's own script.

func LoginPage(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "login.html", gin.H{
		"Error": ctx.Query("error"),
	})
}

func HomePage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	ctx.HTML(http.StatusOK, "index.html", gin.H{
		"User": currentUser,
	})
}

func TaskDetailPage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	taskID, err := utils.GetTaskID(ctx)

	if err != nil {
		ctx.Redirect(http.StatusFound, "/")
		return
	}

	ctx.HTML(http.StatusOK, "task.html", gin.H{
		"User":   currentUser,
		"TaskID": taskID,
	})
}
