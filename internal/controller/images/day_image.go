package images

import (
	"bytes"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_platform/internal/controller/formatting"
	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type FontStyle string

const (
	FontStyleRegular FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Размеры
const (
	imageWidth      = 760
	headerHeight    = 110
	footerHeight    = 60
	paddingX        = 30
	columns         = 4
	chipHeight      = 56.0
	chipGap         = 14.0
	chipRadius      = 10.0
	shadowOffset    = 3.0
	emptyBodyHeight = 120
)

// Размеры шрифтов
const (
	titleFontSize    = 28.0
	subtitleFontSize = 18.0
	chipFontSize     = 22.0
	legendFontSize   = 14.0
)

var (
	bgColor       = color.RGBA{245, 246, 248, 255}
	textColor     = color.RGBA{80, 85, 90, 230}
	subtitleColor = color.RGBA{110, 115, 120, 220}

	slotFreeColor     = color.RGBA{133, 193, 85, 220}
	slotTakenColor    = color.RGBA{255, 182, 193, 255}
	slotTextColor     = color.RGBA{20, 24, 28, 230}
	slotTakenText     = color.RGBA{120, 40, 50, 255}
	slotShadowColor   = color.RGBA{0, 0, 0, 20}
	legendItemColor   = color.RGBA{70, 74, 78, 220}
	emptyMessageColor = color.RGBA{150, 150, 150, 255}
)

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont устанавливает шрифт Go нужного размера, при ошибке basicfont.
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		data := goregular.TTF
		if style == FontStyleBold {
			data = gobold.TTF
		}
		parsed, _ = opentype.Parse(data)
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// DaySlots содержимое картинки одного дня.
type DaySlots struct {
	Title string // обычно название услуги
	Date  time.Time
	Slots []model.Slot
}

// GenerateDayImage рисует слоты дня сеткой плашек (свободные зелёные, занятые
// розовые) и возвращает PNG.
func GenerateDayImage(day DaySlots) ([]byte, error) {
	rows := (len(day.Slots) + columns - 1) / columns
	bodyHeight := rows*int(chipHeight+chipGap) + int(chipGap)
	if len(day.Slots) == 0 {
		bodyHeight = emptyBodyHeight
	}
	height := headerHeight + bodyHeight + footerHeight

	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()

	drawHeader(dc, day)
	if len(day.Slots) == 0 {
		drawEmpty(dc, float64(headerHeight), float64(bodyHeight))
	} else {
		drawSlots(dc, day.Slots)
	}
	drawLegend(dc, float64(height-footerHeight))

	return encodeImage(dc)
}

func drawHeader(dc *gg.Context, day DaySlots) {
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Title, paddingX, 45, 0, 0.5)

	loadFont(dc, subtitleFontSize, FontStyleRegular)
	dc.SetColor(subtitleColor)
	dc.DrawStringAnchored(dayLabel(day.Date), paddingX, 82, 0, 0.5)
}

// dayLabel возвращает подпись вида "Понедельник, 19.10.2026".
func dayLabel(date time.Time) string {
	return formatting.WeekdayName(int(date.Weekday())) + ", " + formatting.FormatDate(date)
}

func drawEmpty(dc *gg.Context, top, height float64) {
	loadFont(dc, subtitleFontSize, FontStyleRegular)
	dc.SetColor(emptyMessageColor)
	dc.DrawStringAnchored("Нет свободного времени", imageWidth/2, top+height/2, 0.5, 0.5)
}

func chipWidth() float64 {
	return (imageWidth - 2*paddingX - (columns-1)*chipGap) / columns
}

func drawSlots(dc *gg.Context, slots []model.Slot) {
	w := chipWidth()
	for i, slot := range slots {
		col, row := i%columns, i/columns
		x := paddingX + float64(col)*(w+chipGap)
		y := float64(headerHeight) + chipGap + float64(row)*(chipHeight+chipGap)
		drawChip(dc, slot, x, y, w)
	}
}

func drawChip(dc *gg.Context, slot model.Slot, x, y, w float64) {
	fill, text := slotFreeColor, slotTextColor
	if !slot.Available {
		fill, text = slotTakenColor, slotTakenText
	}

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, y+shadowOffset, w, chipHeight, chipRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, w, chipHeight, chipRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y, w, chipHeight, chipRadius)
	dc.Stroke()

	loadFont(dc, chipFontSize, FontStyleBold)
	dc.SetColor(text)
	dc.DrawStringAnchored(slot.Time.String(), x+w/2, y+chipHeight/2, 0.5, 0.35)
}

func drawLegend(dc *gg.Context, top float64) {
	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Свободно", slotFreeColor},
		{"Занято", slotTakenColor},
	}

	const boxW, boxH = 20.0, 14.0
	x := float64(paddingX)
	y := top + footerHeight/2 - boxH/2

	loadFont(dc, legendFontSize, FontStyleRegular)
	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, x+boxW+8, y+boxH/2, 0, 0.35)
		lw, _ := dc.MeasureString(item.Label)
		x += boxW + 8 + lw + 24
	}
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
