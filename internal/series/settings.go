package series

import "BreakoutBoard/internal/model"

// SelectSettings maps a candle count to the visual parameters the frontend
// should render with. Denser charts get wider relative candle bodies and
// fewer axis ticks to stay legible.
func SelectSettings(candleCount int) model.RenderingSettings {
	switch {
	case candleCount > 2000:
		return model.RenderingSettings{CandleWidthFactor: 0.9, TickDensity: 6}
	case candleCount > 1000:
		return model.RenderingSettings{CandleWidthFactor: 0.8, TickDensity: 8}
	case candleCount > 500:
		return model.RenderingSettings{CandleWidthFactor: 0.7, TickDensity: 10}
	default:
		return model.RenderingSettings{CandleWidthFactor: 0.6, TickDensity: 12}
	}
}
