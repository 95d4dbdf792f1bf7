package usecase

import (
	"context"

	domain "github.com/ojuansoares/dolse-vitta/internal/entity"
)

// PricingResolver maps product ids to their current stored records.
type PricingResolver struct {
	catalog ProductFetcher
}

func NewPricingResolver(catalog ProductFetcher) *PricingResolver {
	return &PricingResolver{catalog: catalog}
}

// Resolve issues a single batched lookup for the distinct ids. Ids without a
// stored product are absent from the result; that is not an error here.
func (r *PricingResolver) Resolve(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	seen := make(map[string]struct{}, len(ids))
	distinct := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) == 0 {
		return map[string]domain.Product{}, nil
	}

	products, err := r.catalog.FetchProducts(ctx, distinct)
	if err != nil {
		return nil, upstream("fetch products", err)
	}

	out := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if _, asked := seen[p.ID]; asked {
			out[p.ID] = p
		}
	}
	return out, nil
}

// CartProductIDs returns the product ids of a cart in cart order.
func CartProductIDs(items []domain.CartItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	return ids
}
