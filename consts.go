package lrmichael

import "github.com/ricleite/lrmichael/internal/pageprovider"

// Configuration constants. Page is resolved from the host at package init
// (rather than hard-coded) since the page provider already knows the true
// platform page size.
var (
	// Page is the target page size; superblocks and descriptor blocks are
	// always page multiples.
	Page = pageprovider.PageSize()

	// Cacheline is the assumed cache-line size used to pad Descriptor and
	// avoid false sharing between unrelated superblocks.
	Cacheline uintptr = 64
)

// CreditsMax bounds how many blocks mallocFromActive/mallocFromPartial may
// hand out to the active pointer in one refill.
const CreditsMax = 64

// descriptorBlockSize is the chunk size descAlloc carves fresh descriptors
// from: 16 pages.
func descriptorBlockSize() uintptr {
	return 16 * Page
}
