package calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/DhavalSuthar-24/dugout/internal/models"
	"github.com/DhavalSuthar-24/dugout/pkg/responses"
	"github.com/DhavalSuthar-24/dugout/pkg/utils"
	"github.com/DhavalSuthar-24/dugout/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	svc *Service
}

func NewCalendarController(svc *Service) *CalendarController {
	return &CalendarController{svc: svc}
}

// scopeQuery reads ?scope=team|player&id=N.
func scopeQuery(c *gin.Context) (models.Scope, error) {
	id, err := utils.QueryID(c, "id")
	if err != nil {
		return models.Scope{}, err
	}
	return models.ParseScope(c.Query("scope"), id)
}

// GetMonth godoc
// @Summary Month grid for a calendar
// @Description 42 Sunday-first cells. Each cell lists up to `badges` events and counts the rest in `more`.
// @Tags Calendar
// @Produce json
// @Param scope query string true "team or player"
// @Param id query uint true "Team or player ID"
// @Param year query int true "Year"
// @Param month query int true "Month 1-12"
// @Param badges query int false "Events listed per cell" default(3)
// @Success 200 {object} responses.SuccessResponse{data=MonthView}
// @Failure 400 {object} responses.ErrorResponse "Invalid scope or month"
// @Failure 403 {object} responses.ErrorResponse "Calendar not visible to caller"
// @Security ApiKeyAuth
// @Router /calendar/month [get]
func (cc *CalendarController) GetMonth(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	scope, err := scopeQuery(c)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	now := time.Now().UTC()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		responses.BadRequest(c, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		responses.BadRequest(c, "invalid month")
		return
	}
	badges, err := strconv.Atoi(c.DefaultQuery("badges", strconv.Itoa(DefaultBadges)))
	if err != nil || badges < 0 {
		responses.BadRequest(c, "invalid badges")
		return
	}

	view, err := cc.svc.Month(c.Request.Context(), p, scope, year, time.Month(month), badges)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Calendar retrieved successfully", view)
}

// GetWeek godoc
// @Summary Week grid for a calendar
// @Tags Calendar
// @Produce json
// @Param scope query string true "team or player"
// @Param id query uint true "Team or player ID"
// @Param date query string false "Any date in the week (YYYY-MM-DD)"
// @Success 200 {object} responses.SuccessResponse{data=WeekView}
// @Security ApiKeyAuth
// @Router /calendar/week [get]
func (cc *CalendarController) GetWeek(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	scope, err := scopeQuery(c)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	day := models.Today()
	if raw := c.Query("date"); raw != "" {
		if day, err = models.ParseDate(raw); err != nil {
			responses.BadRequest(c, err.Error())
			return
		}
	}
	view, err := cc.svc.Week(c.Request.Context(), p, scope, day)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Calendar retrieved successfully", view)
}

// ListEvents godoc
// @Summary List events in a date range
// @Tags Calendar
// @Produce json
// @Param scope query string true "team or player"
// @Param id query uint true "Team or player ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {object} responses.SuccessResponse{data=[]ScheduleEvent}
// @Security ApiKeyAuth
// @Router /calendar/events [get]
func (cc *CalendarController) ListEvents(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	scope, err := scopeQuery(c)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	from, err := models.ParseDate(c.Query("from"))
	if err != nil {
		responses.BadRequest(c, "from: "+err.Error())
		return
	}
	to, err := models.ParseDate(c.Query("to"))
	if err != nil {
		responses.BadRequest(c, "to: "+err.Error())
		return
	}
	events, err := cc.svc.ListEvents(c.Request.Context(), p, scope, from, to)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Events retrieved successfully", events)
}

// GetEvent godoc
// @Summary Get an event
// @Description Includes the linked training day with exercises, or the linked meal.
// @Tags Calendar
// @Produce json
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=ScheduleEvent}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /calendar/events/{event_id} [get]
func (cc *CalendarController) GetEvent(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "event_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	ev, err := cc.svc.GetEvent(c.Request.Context(), p, id)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event retrieved successfully", ev)
}

// AddEvent godoc
// @Summary Add to a calendar
// @Description Team calendars take team events. Player calendars take a single workout or meal (existing or new) or a full program or meal plan; the latter creates an assignment starting on the date and no calendar rows.
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body AddEventRequest true "Completed add-event draft"
// @Success 201 {object} responses.SuccessResponse{data=SubmitResult}
// @Failure 400 {object} responses.ErrorResponse "Incomplete draft"
// @Failure 403 {object} responses.ErrorResponse "Cannot manage this calendar"
// @Security ApiKeyAuth
// @Router /calendar/events [post]
func (cc *CalendarController) AddEvent(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	var req AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	draft, err := DraftFromRequest(req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	res, err := cc.svc.Submit(c.Request.Context(), p, draft)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Event added successfully", res)
}

// UpdateEvent godoc
// @Summary Edit an event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event_id path uint true "Event ID"
// @Param event body UpdateEventRequest true "New values"
// @Success 200 {object} responses.SuccessResponse{data=ScheduleEvent}
// @Failure 404 {object} responses.ErrorResponse "Event not found or not permitted"
// @Security ApiKeyAuth
// @Router /calendar/events/{event_id} [put]
func (cc *CalendarController) UpdateEvent(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "event_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationFailed(c, validator.ParseError(err))
		return
	}
	ev, err := cc.svc.UpdateEvent(c.Request.Context(), p, id, req)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event updated successfully", ev)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Calendar
// @Param event_id path uint true "Event ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse "Coaches and admins only"
// @Failure 404 {object} responses.ErrorResponse "Nothing was deleted"
// @Security ApiKeyAuth
// @Router /calendar/events/{event_id} [delete]
func (cc *CalendarController) DeleteEvent(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	id, err := utils.ParamID(c, "event_id")
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := cc.svc.DeleteEvent(c.Request.Context(), p, id); err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event deleted successfully", nil)
}

// ListPlayers godoc
// @Summary Players whose calendars the caller manages
// @Tags Calendar
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]PlayerOption}
// @Security ApiKeyAuth
// @Router /calendar/players [get]
func (cc *CalendarController) ListPlayers(c *gin.Context) {
	p, err := common.PrincipalFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	players, err := cc.svc.PlayerOptions(c.Request.Context(), p)
	if err != nil {
		responses.SendAppError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Players retrieved successfully", players)
}
