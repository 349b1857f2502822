// Package batch implementa el ejecutor de lotes acotados que usan el fetcher
// remoto y el orquestador de sincronización: divide una secuencia en grupos de
// tamaño fijo, ejecuta una unidad de trabajo por grupo con pausa entre grupos
// (para no saturar el API remoto) y reporta avance fraccional.
package batch

import (
	"context"
	"time"

	"github.com/jhoicas/Rentabilidad-api/pkg/progress"
)

// Run divide items en grupos ordenados de hasta size elementos y ejecuta work
// secuencialmente por grupo, concatenando los resultados en orden de grupo.
// Después de cada grupo notifica round(100 * gruposHechos / gruposTotales) y
// espera delay antes del siguiente grupo (no después del último).
//
// Un error de work se propaga tal cual y corta la ejecución; si el caller
// quiere aislar fallos por elemento, su work debe capturarlos internamente.
// Aquí no hay reintentos: la política de retry es responsabilidad del caller.
func Run[T, R any](
	ctx context.Context,
	items []T,
	size int,
	delay time.Duration,
	work func(ctx context.Context, group []T) ([]R, error),
	onProgress progress.Reporter,
) ([]R, error) {
	if len(items) == 0 {
		onProgress.Notify(100)
		return nil, nil
	}
	if size <= 0 {
		size = 1
	}

	totalGroups := (len(items) + size - 1) / size
	results := make([]R, 0, len(items))

	for g := 0; g < totalGroups; g++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		start := g * size
		end := start + size
		if end > len(items) {
			end = len(items)
		}

		partial, err := work(ctx, items[start:end])
		if err != nil {
			return results, err
		}
		results = append(results, partial...)

		onProgress.Notify((100*(g+1) + totalGroups/2) / totalGroups)

		if g < totalGroups-1 && delay > 0 {
			if err := sleep(ctx, delay); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// sleep espera d respetando la cancelación del contexto.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
