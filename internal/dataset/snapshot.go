package dataset

import (
	"sort"
)

// Snapshot is one immutable load of the marketplace exports. All engines
// read from it concurrently without locking; nothing mutates it after Load
// returns.
type Snapshot struct {
	Orders    map[string]*Order
	Items     []OrderItem
	Reviews   map[string]*Review
	Products  map[string]*Product
	Customers map[string]*Customer
	Sellers   map[string]*Seller
	Geo       map[int]GeoPoint
	Payments  map[string][]Payment

	CategoryEnglish map[string]string

	SellerClusters   []SellerCluster
	ProductClusters  map[string]int
	CustomerClusters map[string]int

	Lines []Line

	sellerCluster map[string]*SellerCluster
	linesBySeller map[string][]int
}

// SellerLines returns pointers into the joined line table for one seller,
// in load order. Nil for sellers with no order lines.
func (s *Snapshot) SellerLines(sellerID string) []*Line {
	idx := s.linesBySeller[sellerID]
	if len(idx) == 0 {
		return nil
	}
	lines := make([]*Line, len(idx))
	for i, j := range idx {
		lines[i] = &s.Lines[j]
	}
	return lines
}

// SellerClusterRow returns the clustering row for a seller, if present.
func (s *Snapshot) SellerClusterRow(sellerID string) (*SellerCluster, bool) {
	row, ok := s.sellerCluster[sellerID]
	return row, ok
}

// SellerList returns all clustered sellers sorted by total revenue
// descending. Rank is the caller's index plus one.
func (s *Snapshot) SellerList() []SellerCluster {
	out := make([]SellerCluster, len(s.SellerClusters))
	copy(out, s.SellerClusters)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRevenue > out[j].TotalRevenue
	})
	return out
}

// Build derives the joined line table and lookup indexes from the raw
// tables. Load calls it; callers that reconstruct a Snapshot from persisted
// tables must call it before use.
func (s *Snapshot) Build() {
	s.buildLines()
	s.indexClusters()
}

// buildLines joins items with orders, first-per-order reviews, customers,
// and products, then derives delivery spans and the order month.
func (s *Snapshot) buildLines() {
	s.Lines = make([]Line, 0, len(s.Items))
	s.linesBySeller = make(map[string][]int)

	for _, item := range s.Items {
		ln := Line{
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Price:     item.Price,
			Freight:   item.Freight,
		}

		if o := s.Orders[item.OrderID]; o != nil {
			ln.Status = o.Status
			ln.PurchaseTS = o.PurchaseTS
			ln.DeliveredTS = o.DeliveredTS
			ln.EstimatedTS = o.EstimatedTS
			if !o.PurchaseTS.IsZero() {
				ln.Month = o.PurchaseTS.Format("2006-01")
			}
			if !o.DeliveredTS.IsZero() && !o.PurchaseTS.IsZero() {
				ln.Delivered = true
				ln.DeliveryDays = o.DeliveredTS.Sub(o.PurchaseTS).Hours() / 24
			}
			if !o.DeliveredTS.IsZero() && !o.EstimatedTS.IsZero() {
				ln.IsLate = o.DeliveredTS.After(o.EstimatedTS)
			}
			if c := s.Customers[o.CustomerID]; c != nil {
				ln.CustomerID = c.ID
				ln.CustomerUniqueID = c.UniqueID
				ln.CustomerZip = c.ZipPrefix
				ln.CustomerCity = c.City
				ln.CustomerState = c.State
			}
		}

		if r := s.Reviews[item.OrderID]; r != nil {
			ln.HasReview = true
			ln.ReviewScore = r.Score
			ln.ReviewComment = r.Comment
		}

		if p := s.Products[item.ProductID]; p != nil {
			ln.Category = p.Category
			ln.CategoryEnglish = s.CategoryEnglish[p.Category]
			ln.PhotosQty = p.PhotosQty
			ln.HasPhotos = p.HasPhotos
		}

		s.Lines = append(s.Lines, ln)
		s.linesBySeller[item.SellerID] = append(s.linesBySeller[item.SellerID], len(s.Lines)-1)
	}
}

func (s *Snapshot) indexClusters() {
	s.sellerCluster = make(map[string]*SellerCluster, len(s.SellerClusters))
	for i := range s.SellerClusters {
		s.sellerCluster[s.SellerClusters[i].SellerID] = &s.SellerClusters[i]
	}
}
