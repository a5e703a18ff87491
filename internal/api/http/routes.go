package httpapi

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/meteobeguda/internal/api/http/views"
	"github.com/i474232898/meteobeguda/internal/store"
	"github.com/i474232898/meteobeguda/internal/weather"
)

var validate = validator.New()

// RouteConfig carries presentation settings.
type RouteConfig struct {
	Station              string
	ForecastMunicipality string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, cfg RouteConfig) {
	h := &handlers{service: service, cfg: cfg}

	app.Get("/", h.dashboardPage)
	app.Get("/forecast", h.forecastPage)

	v1 := app.Group("/api/v1")

	w := v1.Group("/weather")
	w.Get("/current", h.current)
	w.Get("/temperature", h.temperature)
	w.Get("/humidity", h.humidity)
	w.Get("/pressure", h.pressure)
	w.Get("/wind", h.wind)
	w.Get("/rain", h.rain)
	w.Get("/readings", h.readings)

	charts := v1.Group("/charts")
	charts.Get("/series/:quantity", h.series)
	charts.Get("/daily/:quantity", h.daily)
	charts.Get("/rain/hourly", h.hourlyRain)
	charts.Get("/rain/daily", h.dailyRain)
}

type handlers struct {
	service *weather.Service
	cfg     RouteConfig
}

func (h *handlers) dashboardPage(c *fiber.Ctx) error {
	day := h.service.Today()
	data := &views.DashboardData{Station: h.cfg.Station, Date: day}

	d, err := h.service.Dashboard(c.UserContext(), day)
	switch {
	case err == nil:
		data.Dashboard = &d
	case !isNotFound(err):
		return toFiberError(err, "failed to build dashboard")
	}

	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *handlers) forecastPage(c *fiber.Ctx) error {
	var buf bytes.Buffer
	data := &views.ForecastData{Station: h.cfg.Station, Municipality: h.cfg.ForecastMunicipality}
	if err := views.RenderForecast(&buf, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render page")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *handlers) current(c *fiber.Ctx) error {
	day, err := h.dayParam(c)
	if err != nil {
		return err
	}
	d, err := h.service.Dashboard(c.UserContext(), day)
	if err != nil {
		return toFiberError(err, "failed to build dashboard")
	}
	return c.JSON(d)
}

// snapshot loads the window and applies build for the requested day.
func snapshot[T any](h *handlers, c *fiber.Ctx, build func([]weather.Reading, weather.Date) (T, error)) error {
	day, err := h.dayParam(c)
	if err != nil {
		return err
	}
	readings, err := h.service.Readings(c.UserContext())
	if err != nil {
		return toFiberError(err, "failed to load readings")
	}
	v, err := build(readings, day)
	if err != nil {
		return toFiberError(err, "failed to compute snapshot")
	}
	return c.JSON(v)
}

func (h *handlers) temperature(c *fiber.Ctx) error {
	return snapshot(h, c, weather.CurrentTemperature)
}

func (h *handlers) humidity(c *fiber.Ctx) error {
	return snapshot(h, c, weather.CurrentHumidity)
}

func (h *handlers) pressure(c *fiber.Ctx) error {
	return snapshot(h, c, weather.CurrentPressure)
}

func (h *handlers) rain(c *fiber.Ctx) error {
	return snapshot(h, c, weather.CurrentRain)
}

func (h *handlers) wind(c *fiber.Ctx) error {
	return snapshot(h, c, func(readings []weather.Reading, _ weather.Date) (weather.WindSnapshot, error) {
		return weather.CurrentWind(readings)
	})
}

func (h *handlers) readings(c *fiber.Ctx) error {
	var req rangeQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	readings, err := h.service.Range(c.UserContext(), req.From, req.To)
	if err != nil {
		if isNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "no readings for requested range")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch readings")
	}

	rows := make([]fiber.Map, len(readings))
	for i, r := range readings {
		rows[i] = readingJSON(r)
	}
	return c.JSON(fiber.Map{
		"from":     req.From,
		"to":       req.To,
		"count":    len(rows),
		"readings": rows,
	})
}

func (h *handlers) series(c *fiber.Ctx) error {
	q, err := quantityParam(c)
	if err != nil {
		return err
	}
	readings, err := h.service.Readings(c.UserContext())
	if err != nil {
		return toFiberError(err, "failed to load readings")
	}
	points, err := weather.Series(q, readings)
	if err != nil {
		return toFiberError(err, "failed to build series")
	}
	return c.JSON(points)
}

func (h *handlers) daily(c *fiber.Ctx) error {
	q, err := quantityParam(c)
	if err != nil {
		return err
	}
	readings, err := h.service.Readings(c.UserContext())
	if err != nil {
		return toFiberError(err, "failed to load readings")
	}
	days, err := weather.DailyAggregates(q, readings)
	if err != nil {
		return toFiberError(err, "failed to aggregate readings")
	}
	return c.JSON(days)
}

func (h *handlers) hourlyRain(c *fiber.Ctx) error {
	day, err := h.dayParam(c)
	if err != nil {
		return err
	}
	readings, err := h.service.Readings(c.UserContext())
	if err != nil {
		return toFiberError(err, "failed to load readings")
	}
	return c.JSON(weather.HourlyRain(weather.OnlyOneDay(readings, day)))
}

func (h *handlers) dailyRain(c *fiber.Ctx) error {
	readings, err := h.service.Readings(c.UserContext())
	if err != nil {
		return toFiberError(err, "failed to load readings")
	}
	return c.JSON(weather.DailyRain(readings))
}

// dayQuery holds the optional day selector. Empty means today.
type dayQuery struct {
	Date string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *handlers) dayParam(c *fiber.Ctx) (weather.Date, error) {
	q := dayQuery{Date: c.Query("date")}
	if err := validate.Struct(q); err != nil {
		return weather.Date{}, fiber.NewError(fiber.StatusBadRequest, "invalid date; use YYYY-MM-DD")
	}
	if q.Date == "" {
		return h.service.Today(), nil
	}
	day, err := weather.ParseDate(q.Date)
	if err != nil {
		return weather.Date{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return day, nil
}

type quantityQuery struct {
	Quantity string `validate:"required,oneof=temperature humidity pressure windspeed_max rain"`
}

func quantityParam(c *fiber.Ctx) (weather.Quantity, error) {
	q := quantityQuery{Quantity: c.Params("quantity")}
	if err := validate.Struct(q); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "unknown quantity "+strconv.Quote(q.Quantity))
	}
	return weather.Quantity(q.Quantity), nil
}

// rangeQuery holds query parameters for the readings endpoint.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	r.From = from
	r.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

// readingJSON flattens r into its normalized columns. Missing values encode
// as null since JSON has no NaN.
func readingJSON(r weather.Reading) fiber.Map {
	out := fiber.Map{}
	for _, col := range weather.NormalizedColumns() {
		if col.Name == weather.ColTimestamp {
			out[col.Name] = r.Timestamp
			continue
		}
		v, ok := r.Field(col.Name)
		if !ok {
			continue
		}
		if f, isFloat := v.(float64); isFloat && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v = nil
		}
		out[col.Name] = v
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, weather.ErrNoReadings)
}

func toFiberError(err error, msg string) error {
	switch {
	case isNotFound(err):
		return fiber.NewError(fiber.StatusNotFound, "no weather data for requested day")
	case errors.Is(err, weather.ErrUnknownQuantity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	}
}
