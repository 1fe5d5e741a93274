package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// pageImage は1ページ分の埋め込み可能なラスタ画像です。
type pageImage struct {
	data   []byte
	width  int
	height int
	format string // fpdf が受理する画像種別 ("JPG", "PNG", "GIF")
}

// decodeBounded は画像バイト列を検査し、埋め込みに使用するラスタを返します。
// 両辺が maxDim 以内の場合は元データをそのまま使用し（JPEG/PNG/GIFは再圧縮なし、
// その他の形式は一度だけロスレスPNGへ変換）、超える場合は間引き係数ぶん縮小した
// ビットマップをPNGへエンコードします。返されるラスタの両辺は常に maxDim 以内です。
func decodeBounded(data []byte, maxDim int) (*pageImage, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}

	stride := subsampleStride(cfg.Width, cfg.Height, maxDim, maxDim)

	if stride == 1 {
		if embedType, ok := embeddableFormat(format); ok {
			return &pageImage{
				data:   data,
				width:  cfg.Width,
				height: cfg.Height,
				format: embedType,
			}, nil
		}
		return reencodePNG(data, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dstW := ceilDiv(cfg.Width, stride)
	dstH := ceilDiv(cfg.Height, stride)
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode subsampled image: %w", err)
	}

	return &pageImage{
		data:   buf.Bytes(),
		width:  dstW,
		height: dstH,
		format: "PNG",
	}, nil
}

func reencodePNG(data []byte, width, height int) (*pageImage, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("failed to encode image as png: %w", err)
	}

	return &pageImage{
		data:   buf.Bytes(),
		width:  width,
		height: height,
		format: "PNG",
	}, nil
}

// embeddableFormat は image.Decode の形式名を fpdf の画像種別へ対応付けます。
func embeddableFormat(format string) (string, bool) {
	switch format {
	case "jpeg":
		return "JPG", true
	case "png":
		return "PNG", true
	case "gif":
		return "GIF", true
	default:
		return "", false
	}
}
