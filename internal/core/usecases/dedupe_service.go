// internal/core/usecases/dedupe_service.go
package usecases

import (
	"finsight/internal/core/domain"
)

// DedupeService fusiona los artículos de las fuentes que tuvieron éxito
// en una única secuencia sin duplicados.
type DedupeService struct{}

// NewDedupeService crea una nueva instancia del servicio.
func NewDedupeService() *DedupeService {
	return &DedupeService{}
}

// Merge pliega los resultados recolectados, en orden de configuración,
// en una sola lista. Conserva la PRIMERA aparición de cada identidad:
// los duplicados de fuentes de menor prioridad se descartan en silencio.
// El orden de salida es el orden de primera aparición.
func (d *DedupeService) Merge(collected []CollectedSource) []*domain.Article {
	seen := make(map[string]struct{})
	merged := make([]*domain.Article, 0)

	for _, cs := range collected {
		if !cs.Outcome.OK {
			continue
		}
		for _, a := range cs.Articles {
			if a == nil || !a.IsValid() {
				continue
			}
			a.Normalize()

			key := a.Identity()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, a)
		}
	}

	return merged
}

// Cap recorta la lista al tamaño de página. Se aplica después del
// dedupe y antes del scoring.
func (d *DedupeService) Cap(articles []*domain.Article, pageSize int) []*domain.Article {
	if pageSize <= 0 || len(articles) <= pageSize {
		return articles
	}
	return articles[:pageSize]
}
