// Package all registers every built-in visual with [visual.Default].
//
//	import _ "github.com/matzehuels/chartpack/pkg/visual/all"
package all

import (
	_ "github.com/matzehuels/chartpack/pkg/visual/aster"
	_ "github.com/matzehuels/chartpack/pkg/visual/donut"
	_ "github.com/matzehuels/chartpack/pkg/visual/globemap"
	_ "github.com/matzehuels/chartpack/pkg/visual/histogram"
	_ "github.com/matzehuels/chartpack/pkg/visual/tornado"
)
