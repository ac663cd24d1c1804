package enum

// CartEventType 表示購物車事件的類型
type CartEventType string

const (
	CartEventTypeLoaded      CartEventType = "cart_loaded"      // 從儲存載入購物車
	CartEventTypeAdded       CartEventType = "item_added"       // 新增商品或數量 +1
	CartEventTypeIncremented CartEventType = "item_incremented" // 數量 +1
	CartEventTypeDecremented CartEventType = "item_decremented" // 數量 -1
	CartEventTypeRemoved     CartEventType = "item_removed"     // 數量歸零，移除商品
	CartEventTypeCleared     CartEventType = "cart_cleared"     // 清空購物車
)

// CartEventTypes lists every event type in declaration order.
func CartEventTypes() []CartEventType {
	return []CartEventType{
		CartEventTypeLoaded,
		CartEventTypeAdded,
		CartEventTypeIncremented,
		CartEventTypeDecremented,
		CartEventTypeRemoved,
		CartEventTypeCleared,
	}
}
