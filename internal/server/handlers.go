package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brambling/internal/checkout"
	"brambling/internal/router"
	"brambling/internal/store"
)

// load reads the request's event and order and builds a fresh workflow.
func (s *Server) load(c *gin.Context) (*checkout.Workflow, *store.Order, error) {
	event, order, err := s.reader.Order(c.Param("event_slug"), c.Param("order_code"))
	if err != nil {
		return nil, nil, err
	}
	w, err := checkout.New(checkout.Context{Event: event, Order: order, Now: s.now()}, s.manifest)
	if err != nil {
		return nil, nil, err
	}
	return w, order, nil
}

// abortLoad maps a load failure to a response.
func (s *Server) abortLoad(c *gin.Context, err error) {
	if errors.Is(err, store.ErrEventNotFound) || errors.Is(err, store.ErrOrderNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Failed to build workflow")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
}

// params are the route parameters used to reverse step locations.
func params(c *gin.Context) map[string]string {
	p := make(map[string]string, len(c.Params))
	for _, param := range c.Params {
		if param.Value != "" {
			p[param.Key] = param.Value
		}
	}
	return p
}

// redirectTo sends the client to step's location.
func (s *Server) redirectTo(c *gin.Context, code int, step *checkout.Step) {
	target, err := router.Reverse(step.Location(), params(c))
	if err != nil {
		s.log.Error().Err(err).Str("step", step.Slug()).Msg("Failed to reverse step location")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve step location"})
		return
	}
	c.Redirect(code, target)
	c.Abort()
}

// workflow builds the request's workflow and enforces the routing policy:
// a step that is missing, inactive or inaccessible is never served; the
// client is redirected to the last active, accessible step instead.
func (s *Server) workflow() gin.HandlerFunc {
	return func(c *gin.Context) {
		w, order, err := s.load(c)
		if err != nil {
			s.abortLoad(c, err)
			return
		}

		decision, err := router.Resolve(w, c.Param("step"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if decision.Redirect != nil {
			s.log.Debug().
				Str("requested", c.Param("step")).
				Str("redirect", decision.Redirect.Slug()).
				Msg("Step not reachable, redirecting")
			s.redirectTo(c, http.StatusFound, decision.Redirect)
			return
		}

		c.Set(keyWorkflow, w)
		c.Set(keyStep, decision.Current)
		c.Set(keyOrder, order)
		c.Next()
	}
}

// stepResponse mirrors what a step page needs to render.
type stepResponse struct {
	Workflow []router.StepState `json:"workflow"`
	Current  router.StepState   `json:"current"`
	Next     string             `json:"next,omitempty"`
}

func (s *Server) showStep(c *gin.Context) {
	w := c.MustGet(keyWorkflow).(*checkout.Workflow)
	step := c.MustGet(keyStep).(*checkout.Step)

	resp := stepResponse{
		Workflow: router.Plan(w),
		Current:  router.State(step),
	}
	if next := step.NextStep(); next != nil {
		resp.Next = next.Slug()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) submitStep(c *gin.Context) {
	step := c.MustGet(keyStep).(*checkout.Step)
	order := c.MustGet(keyOrder).(*store.Order)
	log := s.log.With().
		Str("event", c.Param("event_slug")).
		Str("order", c.Param("order_code")).
		Str("step", step.Slug()).
		Logger()

	if s.submit != nil {
		if err := s.submit(c, step, order); err != nil {
			log.Warn().Err(err).Msg("Submission rejected")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.writer.SaveOrder(*order); err != nil {
			log.Error().Err(err).Msg("Failed to save order")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to save order"})
			return
		}
	}

	// Rebuild from the saved records; results memoized before the
	// submission are stale.
	w, _, err := s.load(c)
	if err != nil {
		s.abortLoad(c, err)
		return
	}

	decision, err := router.Resolve(w, step.Slug())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if decision.Redirect != nil {
		s.redirectTo(c, http.StatusSeeOther, decision.Redirect)
		return
	}

	target, err := router.SuccessTarget(decision.Current)
	if errors.Is(err, router.ErrWorkflowComplete) {
		log.Info().Msg("Workflow complete")
		c.JSON(http.StatusOK, gin.H{"complete": true, "workflow": router.Plan(w)})
		return
	}
	if target == decision.Current {
		log.Debug().Int("errors", len(target.Errors())).Msg("Step has errors, staying")
	}
	s.redirectTo(c, http.StatusSeeOther, target)
}

func (s *Server) showPlan(c *gin.Context) {
	w, _, err := s.load(c)
	if err != nil {
		s.abortLoad(c, err)
		return
	}

	resp := gin.H{"workflow": router.Plan(w)}
	if current, ok := router.Current(w); ok {
		resp["current"] = current.Slug()
	}
	c.JSON(http.StatusOK, resp)
}
