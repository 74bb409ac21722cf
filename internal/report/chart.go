package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poolbench/poolbench/internal/domain"
)

// ChartFileName is the name of the chart artifact inside the report dir
const ChartFileName = "crud_performance_comparison.svg"

const (
	chartWidth  = 960
	chartHeight = 560
	marginLeft  = 70
	marginRight = 30
	marginTop   = 70
	marginBot   = 60
)

// WriteChart renders a grouped bar chart of both runs into dir and returns
// the artifact path. The dir is created if it does not exist.
func WriteChart(dir string, c *Comparison) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(dir, ChartFileName)
	if err := os.WriteFile(path, []byte(renderSVG(c)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write chart: %w", err)
	}

	return path, nil
}

// renderSVG draws five groups (four operations plus totals) of two bars each
func renderSVG(c *Comparison) string {
	labels := make([]string, 0, len(domain.Operations)+1)
	direct := make([]float64, 0, len(domain.Operations)+1)
	pooled := make([]float64, 0, len(domain.Operations)+1)

	for _, op := range domain.Operations {
		labels = append(labels, capitalize(string(op)))
		direct = append(direct, c.Direct.Phases[op].Seconds())
		pooled = append(pooled, c.Pooled.Phases[op].Seconds())
	}
	labels = append(labels, "Total")
	direct = append(direct, c.Direct.Total().Seconds())
	pooled = append(pooled, c.Pooled.Total().Seconds())

	maxVal := 0.0
	for i := range direct {
		if direct[i] > maxVal {
			maxVal = direct[i]
		}
		if pooled[i] > maxVal {
			maxVal = pooled[i]
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBot)
	groupW := plotW / float64(len(labels))
	barW := groupW * 0.35

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif">`+"\n",
		chartWidth, chartHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", chartWidth, chartHeight)
	fmt.Fprintf(&b, `<text x="%d" y="30" font-size="18" font-weight="bold" text-anchor="middle">Performance of CRUD operations with/without pooling (%d data points)</text>`+"\n",
		chartWidth/2, c.Direct.DataPoints)

	// legend
	fmt.Fprintf(&b, `<rect x="%d" y="45" width="12" height="12" fill="skyblue"/><text x="%d" y="55" font-size="12">Without pooling</text>`+"\n",
		marginLeft, marginLeft+18)
	fmt.Fprintf(&b, `<rect x="%d" y="45" width="12" height="12" fill="salmon"/><text x="%d" y="55" font-size="12">With pooling</text>`+"\n",
		marginLeft+150, marginLeft+168)

	// axes
	baseline := chartHeight - marginBot
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, baseline, chartWidth-marginRight, baseline)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, marginTop, marginLeft, baseline)
	fmt.Fprintf(&b, `<text x="20" y="%d" font-size="12" transform="rotate(-90 20 %d)" text-anchor="middle">Duration (seconds)</text>`+"\n",
		(marginTop+baseline)/2, (marginTop+baseline)/2)

	for i, label := range labels {
		groupX := float64(marginLeft) + groupW*float64(i)
		center := groupX + groupW/2

		drawBar(&b, center-barW-2, direct[i], maxVal, plotH, barW, "skyblue")
		drawBar(&b, center+2, pooled[i], maxVal, plotH, barW, "salmon")

		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="13" text-anchor="middle">%s</text>`+"\n",
			center, baseline+20, label)
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func drawBar(b *strings.Builder, x, val, maxVal, plotH, barW float64, color string) {
	h := val / maxVal * plotH
	y := float64(chartHeight-marginBot) - h
	fmt.Fprintf(b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		x, y, barW, h, color)
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" font-size="11" font-weight="bold" text-anchor="middle">%.2fs</text>`+"\n",
		x+barW/2, y-4, val)
}
