package events

// Topic constants for events emitted by the storefront.
const (
	TopicCartItemAdded   = "cart.item_added"
	TopicCartItemRemoved = "cart.item_removed"
	TopicCartQtyUpdated  = "cart.quantity_updated"
	TopicCartCleared     = "cart.cleared"
	TopicPromoApplied    = "cart.promo_applied"
	TopicPromoRejected   = "cart.promo_rejected"
	TopicWishlistAdded   = "wishlist.item_added"
	TopicWishlistRemoved = "wishlist.item_removed"
	TopicOrderCreated    = "order.created"
)

// DefaultTopics returns the canonical list of topics that raise toasts.
func DefaultTopics() []string {
	return []string{
		TopicCartItemAdded,
		TopicCartItemRemoved,
		TopicCartQtyUpdated,
		TopicCartCleared,
		TopicPromoApplied,
		TopicPromoRejected,
		TopicWishlistAdded,
		TopicWishlistRemoved,
		TopicOrderCreated,
	}
}
