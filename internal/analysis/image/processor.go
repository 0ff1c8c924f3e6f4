// Package image 분석 요청으로 접수된 이미지의 전처리를 담당합니다.
//
// 전처리는 다음 순서로 수행됩니다:
//  1. EXIF Orientation 태그 기반 회전/반전 보정 (JPEG)
//  2. 최대 허용 크기를 초과하는 경우 종횡비를 유지한 축소
//  3. JPEG 재인코딩 (투명 영역은 흰색 배경으로 합성)
//
// 원본이 JPEG이고 보정과 축소가 모두 불필요하면 재인코딩 없이 원본
// 데이터를 그대로 반환합니다.
package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	_ "image/png" // PNG 디코더 등록

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp" // BMP 디코더 등록
	"golang.org/x/image/draw"

	apperrors "github.com/darkkaiser/typhoon-safety-server/internal/pkg/errors"
	applog "github.com/darkkaiser/typhoon-safety-server/pkg/log"
)

const component = "image-processor"

// Info 전처리 전후의 이미지 메타데이터입니다. 분석 결과에 그대로 포함됩니다.
type Info struct {
	OriginalSize  string `json:"original_size"`   // 원본 크기 (예: "4032x3024")
	ProcessedSize string `json:"processed_size"`  // 전처리 후 크기 (예: "1024x768")
	Format        string `json:"format"`          // 원본 포맷 (jpeg, png, bmp)
	FileSizeBytes int    `json:"file_size_bytes"` // 원본 파일 크기 (바이트)
}

// Processor 이미지 전처리기입니다. 모델에 전달하기 전에 이미지를
// 설정된 최대 크기 이내의 JPEG으로 정규화합니다.
type Processor struct {
	maxWidth    int
	maxHeight   int
	jpegQuality int
}

// NewProcessor Processor 인스턴스를 생성합니다.
func NewProcessor(maxWidth, maxHeight, jpegQuality int) *Processor {
	return &Processor{
		maxWidth:    maxWidth,
		maxHeight:   maxHeight,
		jpegQuality: jpegQuality,
	}
}

// Process 이미지를 디코딩하여 Orientation 보정, 축소, JPEG 재인코딩을 수행합니다.
//
// 반환되는 바이트는 항상 JPEG이며, Info에는 원본과 전처리 후의 크기 정보가
// 담깁니다. 빈 데이터와 디코딩할 수 없는 데이터는 에러로 거부합니다.
func (p *Processor) Process(data []byte) ([]byte, *Info, error) {
	if len(data) == 0 {
		return nil, nil, apperrors.New(apperrors.InvalidInput, "이미지 데이터가 비어있습니다")
	}

	orientation := Orientation(data)

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "이미지 디코딩에 실패했습니다")
	}

	bounds := img.Bounds()
	originalWidth, originalHeight := bounds.Dx(), bounds.Dy()

	info := &Info{
		OriginalSize:  fmt.Sprintf("%dx%d", originalWidth, originalHeight),
		Format:        format,
		FileSizeBytes: len(data),
	}

	if orientation != 1 {
		img = CorrectOrientation(img, orientation)

		applog.WithComponentAndFields(component, applog.Fields{
			"orientation": orientation,
		}).Debug("EXIF Orientation 보정 적용")
	}

	corrected := img.Bounds()
	width, height := corrected.Dx(), corrected.Dy()

	// 원본이 JPEG이고 보정/축소가 모두 불필요하면 재인코딩하지 않는다.
	if format == "jpeg" && orientation == 1 && width <= p.maxWidth && height <= p.maxHeight {
		info.ProcessedSize = info.OriginalSize
		return data, info, nil
	}

	newWidth, newHeight := width, height
	if width > p.maxWidth || height > p.maxHeight {
		// 종횡비 유지를 위해 가로/세로 축소 비율 중 작은 값을 사용한다.
		scaleX := float64(p.maxWidth) / float64(width)
		scaleY := float64(p.maxHeight) / float64(height)
		scale := math.Min(scaleX, scaleY)

		newWidth = int(float64(width) * scale)
		newHeight = int(float64(height) * scale)

		if newWidth > p.maxWidth {
			newWidth = p.maxWidth
		}
		if newHeight > p.maxHeight {
			newHeight = p.maxHeight
		}
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
	}

	// 흰색 배경 위에 합성하여 PNG 등의 투명 영역을 제거한다.
	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if newWidth == width && newHeight == height {
		draw.Draw(dst, dst.Bounds(), img, corrected.Min, draw.Over)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, corrected, draw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ExecutionFailed, "JPEG 인코딩에 실패했습니다")
	}

	info.ProcessedSize = fmt.Sprintf("%dx%d", newWidth, newHeight)

	applog.WithComponentAndFields(component, applog.Fields{
		"original_size":  info.OriginalSize,
		"processed_size": info.ProcessedSize,
		"format":         format,
		"input_bytes":    len(data),
		"output_bytes":   buf.Len(),
	}).Debug("이미지 전처리 완료")

	return buf.Bytes(), info, nil
}

// Orientation JPEG 데이터에서 EXIF Orientation 값(1~8)을 추출합니다.
// EXIF 정보가 없거나 읽을 수 없으면 기본값 1을 반환합니다.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}

	return v
}

// CorrectOrientation EXIF Orientation 값에 따라 이미지를 회전/반전합니다.
// Orientation이 1이거나 범위를 벗어나면 원본을 그대로 반환합니다.
func CorrectOrientation(img image.Image, orientation int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch orientation {
	case 2: // 좌우 반전
		newImg := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(width-1-x, y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	case 3: // 180도 회전
		newImg := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(width-1-x, height-1-y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	case 4: // 상하 반전
		newImg := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(x, height-1-y, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	case 5: // 대각선 반전 (Transpose)
		newImg := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(y, x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	case 6: // 시계 방향 90도 회전
		newImg := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(height-1-y, x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	case 7: // 역대각선 반전 (Transverse)
		newImg := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(height-1-y, width-1-x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	case 8: // 반시계 방향 90도 회전
		newImg := image.NewRGBA(image.Rect(0, 0, height, width))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				newImg.Set(y, width-1-x, img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
		return newImg
	default: // Orientation 1 또는 알 수 없는 값
		return img
	}
}
