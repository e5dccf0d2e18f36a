package pelprep

import (
	"fmt"

	"github.com/bodgit/pelprep/raw"
)

const processedSuffix = "_processed"

// Item identifies one image of the dataset by its type and number.
type Item struct {
	Type int
	Num  int
}

func (i Item) String() string {
	return fmt.Sprintf("%d_%d", i.Type, i.Num)
}

// Filename returns the raw image file name for the item, {type}_{num}.bin or
// {type}_{num}_processed.bin.
func (i Item) Filename(processed bool) string {
	if processed {
		return i.String() + processedSuffix + raw.Ext
	}
	return i.String() + raw.Ext
}

// Grid returns every combination of types and nums, grouped by number so
// each subject's types are adjacent.
func Grid(types, nums []int) []Item {
	items := make([]Item, 0, len(types)*len(nums))
	for _, n := range nums {
		for _, t := range types {
			items = append(items, Item{Type: t, Num: n})
		}
	}
	return items
}
