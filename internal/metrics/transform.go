package metrics

import (
	"fmt"

	"github.com/annel0/blockedit/internal/world/block"
	"github.com/prometheus/client_golang/prometheus"
)

// Имена операций в метке op
const (
	OpRotate90        = "rotate90"
	OpRotate90Reverse = "rotate90_reverse"
	OpCycle           = "cycle"
	OpFlip            = "flip"
	OpFlipDirection   = "flip_direction"
)

// Transform оборачивает block.Transform и считает вызовы операций.
// Результат внутренней реализации возвращается без изменений.
type Transform struct {
	next    block.Transform
	calls   *prometheus.CounterVec
	changes *prometheus.CounterVec
}

// NewTransform создаёт обёртку и регистрирует метрики в reg
func NewTransform(next block.Transform, reg prometheus.Registerer) (*Transform, error) {
	t := &Transform{
		next: next,
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockedit",
			Name:      "transform_calls_total",
			Help:      "Общее число вызовов преобразований данных блоков.",
		}, []string{"op"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blockedit",
			Name:      "transform_changes_total",
			Help:      "Число вызовов, изменивших данные блока.",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{t.calls, t.changes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("ошибка регистрации метрик: %w", err)
		}
	}
	return t, nil
}

func (t *Transform) observe(op string, before, after int32) int32 {
	t.calls.WithLabelValues(op).Inc()
	if before != after {
		t.changes.WithLabelValues(op).Inc()
	}
	return after
}

func (t *Transform) Rotate90(id block.BlockID, data int32) int32 {
	return t.observe(OpRotate90, data, t.next.Rotate90(id, data))
}

func (t *Transform) Rotate90Reverse(id block.BlockID, data int32) int32 {
	return t.observe(OpRotate90Reverse, data, t.next.Rotate90Reverse(id, data))
}

func (t *Transform) Cycle(id block.BlockID, data int32, increment int) int32 {
	return t.observe(OpCycle, data, t.next.Cycle(id, data, increment))
}

func (t *Transform) Flip(id block.BlockID, data int32) int32 {
	return t.observe(OpFlip, data, t.next.Flip(id, data))
}

func (t *Transform) FlipDirection(id block.BlockID, data int32, dir block.FlipDirection) int32 {
	return t.observe(OpFlipDirection, data, t.next.FlipDirection(id, data, dir))
}

var _ block.Transform = (*Transform)(nil)
