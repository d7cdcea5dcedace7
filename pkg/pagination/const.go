package pagination

import "time"

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 10

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 10_000

// MaxKeepAlive bounds how long a cursor may pin a point in time
const MaxKeepAlive = time.Hour
