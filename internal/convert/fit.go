package convert

// subsampleStride は元画像の寸法を上限内へ収めるための整数間引き係数を返します。
// s = ceil(1 / min(maxW/nativeW, maxH/nativeH)) を整数演算で計算し、1未満には
// ならないようにクランプします。
func subsampleStride(nativeW, nativeH, maxW, maxH int) int {
	if nativeW <= 0 || nativeH <= 0 || maxW <= 0 || maxH <= 0 {
		return 1
	}
	stride := ceilDiv(nativeW, maxW)
	if s := ceilDiv(nativeH, maxH); s > stride {
		stride = s
	}
	if stride < 1 {
		stride = 1
	}
	return stride
}

// fitToPage は縦横比を保ったままページに収まる最大の描画サイズと、
// 中央配置のためのオフセットを返します。切り抜きは発生しません。
func fitToPage(imgW, imgH, pageW, pageH float64) (drawW, drawH, x, y float64) {
	scale := pageW / imgW
	if s := pageH / imgH; s < scale {
		scale = s
	}

	drawW = imgW * scale
	drawH = imgH * scale
	x = (pageW - drawW) / 2
	y = (pageH - drawH) / 2
	return drawW, drawH, x, y
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
