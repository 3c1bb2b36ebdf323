package icon

import (
	"fmt"
	"testing"

	"github.com/solotube/solotube/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given every registered icon", t, func() {
		for i := range icons {
			target := i

			Convey(fmt.Sprintf("It renders icon %d for each variant", target), func() {
				for _, variant := range AvailableVariants() {
					viper.Set(key.IconsVariant, variant)
					So(Get(target), ShouldNotBeEmpty)
				}
			})

			Convey(fmt.Sprintf("It falls back to plain for icon %d with an unknown variant", target), func() {
				viper.Set(key.IconsVariant, "")
				So(Get(target), ShouldEqual, icons[target].plain)
			})
		}
	})
}
