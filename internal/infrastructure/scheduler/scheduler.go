// Package scheduler ejecuta las tareas programadas con cron.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

const stockAlertTimeout = 2 * time.Minute

// NegativeStockReporter fuente del reporte de stock negativo.
type NegativeStockReporter interface {
	NegativeStockReport(ctx context.Context) ([]inventory.NegativeStockReport, error)
}

// Scheduler tareas programadas de la API.
type Scheduler struct {
	cron     *cron.Cron
	alerts   NegativeStockReporter
	schedule string
	log      *logger.Logger
}

// New construye el scheduler. schedule vacío desactiva la alerta de stock.
func New(schedule string, alerts NegativeStockReporter, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	// Parser estándar de 5 campos: min, hora, día del mes, mes, día de la semana.
	return &Scheduler{cron: cron.New(), alerts: alerts, schedule: schedule, log: log}
}

// Start registra las tareas y arranca el cron. Devuelve error si la expresión es inválida.
func (s *Scheduler) Start() error {
	if s.schedule != "" {
		if _, err := s.cron.AddFunc(s.schedule, s.runStockAlert); err != nil {
			return err
		}
		s.log.Info().Str("cron", s.schedule).Msg("alerta de stock negativo programada")
	}
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la tarea en curso o venza ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) runStockAlert() {
	ctx, cancel := context.WithTimeout(context.Background(), stockAlertTimeout)
	defer cancel()
	s.CheckNegativeStock(ctx)
}

// CheckNegativeStock registra un warning por usuario con stock negativo. Devuelve la cantidad de usuarios afectados.
func (s *Scheduler) CheckNegativeStock(ctx context.Context) int {
	reports, err := s.alerts.NegativeStockReport(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reporte de stock negativo")
		return 0
	}
	for _, r := range reports {
		ev := s.log.Warn().
			Str("user_id", r.UserID).
			Int("items", len(r.Items)).
			Str("deficit", r.Deficit.String())
		if len(r.Items) > 0 {
			ev = ev.Str("worst_product", r.Items[0].ProductName).Str("worst_quantity", r.Items[0].Quantity.String())
		}
		ev.Msg("stock negativo")
	}
	if len(reports) == 0 {
		s.log.Debug().Msg("sin stock negativo")
	}
	return len(reports)
}
