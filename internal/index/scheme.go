package index

var (
	bMeta      = []byte("meta")       // "import" -> ghost.Meta
	bPosts     = []byte("posts")      // postKey -> ghost.Post
	bPostSlug  = []byte("post_slug")  // slug -> postKey，同 slug 先到先得
	bTags      = []byte("tags")       // id -> tagEntry
	bUsers     = []byte("users")      // id -> ghost.User
	bIdxTag    = []byte("idx_tag")    // tag slug -> sub-bucket of postKey
	bIdxAuthor = []byte("idx_author") // user slug -> sub-bucket of postKey
)

var allBuckets = [][]byte{bMeta, bPosts, bPostSlug, bTags, bUsers, bIdxTag, bIdxAuthor}

var metaKey = []byte("import")
