package convert

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// composeDocument は画像列からA4縦の複数ページPDFを生成します。
// 1画像につき1ページ、入力順を保持し、各画像はページ内に収まるよう
// 縦横比を維持して拡縮され、中央に配置されます。
func composeDocument(pages []*pageImage) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages to compose")
	}

	doc := fpdf.New("P", "pt", "A4", "")
	pageW, pageH := doc.GetPageSize()

	for i, img := range pages {
		doc.AddPage()

		drawW, drawH, x, y := fitToPage(float64(img.width), float64(img.height), pageW, pageH)

		name := fmt.Sprintf("page-%d", i+1)
		opts := fpdf.ImageOptions{ImageType: img.format}
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.data))
		doc.ImageOptions(name, x, y, drawW, drawH, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// verifyDocument は生成されたPDFを読み戻してページ数を検証します。
func verifyDocument(data []byte, wantPages int) error {
	count, err := pdfapi.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("failed to verify composed pdf: %w", err)
	}
	if count != wantPages {
		return fmt.Errorf("composed pdf has %d pages, want %d", count, wantPages)
	}
	return nil
}
