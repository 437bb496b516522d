package ports

import "github.com/bnema/copilot-usage/internal/domain"

type IndicatorSink interface {
	SetText(text string)
	SetMenu(menu domain.Menu)
}
