package charts

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ivanoskov/fintrack/internal/ledger"
)

// ChartGenerator рисует графики по агрегатам гроссбуха.
type ChartGenerator struct{}

// NewChartGenerator создает новый генератор графиков.
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

func colorFromHex(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// SpendingDonut строит кольцевую диаграмму расходов месяца по категориям,
// сохраняя цвета категорий. Возвращает nil при отсутствии данных.
func (g *ChartGenerator) SpendingDonut(spending []ledger.CategorySpending, currency string) ([]byte, error) {
	if len(spending) == 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(spending))
	for _, item := range spending {
		values = append(values, chart.Value{
			Value: item.Total,
			Label: fmt.Sprintf("%s (%s%.2f)", item.Name, currency, item.Total),
			Style: chart.Style{
				FillColor: colorFromHex(item.Color),
			},
		})
	}

	donut := chart.DonutChart{
		Width:  800,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render spending chart: %w", err)
	}
	return buf.Bytes(), nil
}

// MonthlyTrendChart строит график трат, бюджета и дохода по месяцам тренда.
// Возвращает nil, если во всех точках нули.
func (g *ChartGenerator) MonthlyTrendChart(trend []ledger.TrendPoint, currency string) ([]byte, error) {
	hasData := false
	for _, point := range trend {
		if point.Spent > 0 || point.Budget > 0 || point.Income > 0 {
			hasData = true
			break
		}
	}
	if !hasData {
		return nil, nil
	}

	xValues := make([]time.Time, len(trend))
	spentValues := make([]float64, len(trend))
	budgetValues := make([]float64, len(trend))
	incomeValues := make([]float64, len(trend))
	for i, point := range trend {
		t, err := time.Parse("2006-01", point.Key)
		if err != nil {
			return nil, fmt.Errorf("bad trend month key %q: %w", point.Key, err)
		}
		xValues[i] = t
		spentValues[i] = point.Spent
		budgetValues[i] = point.Budget
		incomeValues[i] = point.Income
	}

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 06"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%s%.0f", currency, v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Spent",
				XValues: xValues,
				YValues: spentValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "Budget",
				XValues: xValues,
				YValues: budgetValues,
				Style: chart.Style{
					StrokeColor:     chart.ColorBlue,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render trend chart: %w", err)
	}
	return buf.Bytes(), nil
}
