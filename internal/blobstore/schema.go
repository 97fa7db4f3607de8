package blobstore

// Schema DDL for the photo object store. Open is idempotent, so every
// statement guards with IF NOT EXISTS.
const (
	createPhotos = `CREATE TABLE IF NOT EXISTS photos (
    photo_id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL,
    data BLOB NOT NULL
);`

	idxPhotosOwner = `CREATE INDEX IF NOT EXISTS idx_photos_owner ON photos(owner_id);`
)

// schemaDDL lists all schema statements in execution order.
var schemaDDL = []string{
	createPhotos,
	idxPhotosOwner,
}
