// Package progress define el reportador de avance que usan la sincronización
// y el fetcher remoto. Un Reporter recibe enteros 0–100; Scoped permite que una
// sub-operación reporte en su propia escala 0–100 y el padre vea solo su
// porción del rango, sin aritmética manual en cada call site.
package progress

// Reporter es un callback de avance. El valor está siempre en [0, 100].
// Un Reporter nil es válido: Notify no hace nada.
type Reporter func(pct int)

// Notify entrega un valor de avance al callback, acotado a [0, 100].
// El callback lo provee el caller (UI, HTTP, logs); si entra en pánico, el
// pánico se absorbe aquí: el avance es informativo y nunca debe tumbar la
// operación que lo reporta.
func (r Reporter) Notify(pct int) {
	if r == nil {
		return
	}
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	defer func() { _ = recover() }()
	r(pct)
}

// Scoped devuelve un Reporter hijo atado al sub-rango [lo, hi] del padre.
// El hijo reporta en su escala local 0–100 y este wrapper hace el remapeo
// lineal: local 0 → lo, local 100 → hi. Los límites se acotan a [0, 100]
// y se normalizan si vienen invertidos.
func (r Reporter) Scoped(lo, hi int) Reporter {
	if lo < 0 {
		lo = 0
	}
	if hi > 100 {
		hi = 100
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return func(local int) {
		if local < 0 {
			local = 0
		} else if local > 100 {
			local = 100
		}
		// Redondeo al entero más cercano del remapeo lineal
		r.Notify(lo + (local*(hi-lo)+50)/100)
	}
}

// Monotonic devuelve un Reporter que nunca retrocede: si llega un valor menor
// al último reportado, se descarta. Garantiza la señal no-decreciente que
// esperan los consumidores aunque las sub-fases se solapen en los bordes.
func (r Reporter) Monotonic() Reporter {
	last := -1
	return func(pct int) {
		if pct <= last {
			return
		}
		last = pct
		r.Notify(pct)
	}
}
