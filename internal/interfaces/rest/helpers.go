package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nexuscrm/builder/pkg/errors"
)

// Response keys shared by every handler
const (
	FieldMessage = "message"
	FieldError   = "error"
)

// RespondAppError sends a standardised JSON error response using pkg/errors.
// Server errors are attached to the context for the request logger.
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	resp := errors.ToResponse(err)
	body := gin.H{
		FieldError:   resp.Message,
		FieldMessage: resp.Message,
		"code":       resp.Code,
		"data":       nil,
	}
	if len(resp.Reasons) > 0 {
		body["reasons"] = resp.Reasons
	}
	if resp.Details != nil {
		body["details"] = resp.Details
	}
	c.AbortWithStatusJSON(code, body)
}

// BindJSON binds JSON and returns true if successful. If failed, it sends bad request error.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// HandleGetEnvelope executes a read action and returns the result wrapped in a JSON key
// Response: { [key]: result }
func HandleGetEnvelope(c *gin.Context, key string, action func() (interface{}, error)) {
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: result})
}

// HandleCreateEnvelope binds obj, runs the action and returns the action's result
// Response: { message: successMsg, [key]: result }
func HandleCreateEnvelope(c *gin.Context, key, successMsg string, obj interface{}, action func() (interface{}, error)) {
	handleWrite(c, http.StatusCreated, key, successMsg, obj, action)
}

// HandleUpdateEnvelope is HandleCreateEnvelope answering 200
func HandleUpdateEnvelope(c *gin.Context, key, successMsg string, obj interface{}, action func() (interface{}, error)) {
	handleWrite(c, http.StatusOK, key, successMsg, obj, action)
}

func handleWrite(c *gin.Context, status int, key, successMsg string, obj interface{}, action func() (interface{}, error)) {
	if obj != nil && !BindJSON(c, obj) {
		return
	}
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	response := gin.H{FieldMessage: successMsg}
	if key != "" {
		response[key] = result
	}
	c.JSON(status, response)
}

// HandleDeleteEnvelope executes a delete action and returns a success message
// Response: { message: successMsg }
func HandleDeleteEnvelope(c *gin.Context, successMsg string, action func() error) {
	if err := action(); err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{FieldMessage: successMsg})
}

// queryBool reads a boolean query parameter; absent or unparsable means false
func queryBool(c *gin.Context, name string) bool {
	b, _ := strconv.ParseBool(c.Query(name))
	return b
}
