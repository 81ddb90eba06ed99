// Package jsondb implements the storage interface over a single JSON document
// file. The whole dataset lives in memory and is flushed to disk on Close.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akraevsky/bkmrks/internal/db/storage"
	"github.com/akraevsky/bkmrks/internal/models"
)

// CacheStruct is the on-disk document layout. Slice order is insertion order
// and defines the natural ordering of list reads.
type CacheStruct struct {
	Users     []models.User
	Tags      []models.Tag
	Bookmarks []models.Bookmark
}

// JSONDB is a file-backed document store.
type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

func initDBFile(fileName string) error {
	dbFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(dbFile, `{
	"Users": [],
	"Tags": [],
	"Bookmarks": []
}`)
	if err != nil {
		return err
	}
	return dbFile.Close()
}

func writeToJSONFile(fileName string, cache interface{}) error {
	jsonData, err := json.MarshalIndent(cache, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %s", err)
	}

	file, err2 := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %s", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %s", err)
	}

	return nil
}

func parseJSONFile(fileName string, cacheMap *CacheStruct) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(cacheMap)
	if err != nil {
		return err
	}

	return nil
}

// New loads the document file, creating an empty one when missing.
func New(fileName string) (*JSONDB, error) {
	theDB := JSONDB{
		fileName: fileName,
		Cache:    CacheStruct{},
	}

	err := parseJSONFile(theDB.fileName, &theDB.Cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
		err = parseJSONFile(theDB.fileName, &theDB.Cache)
		if err != nil {
			return nil, err
		}
	}

	return &theDB, nil
}

// Ping always succeeds for the file store.
func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close flushes the cache to the document file.
func (db *JSONDB) Close() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return writeToJSONFile(db.fileName, db.Cache)
}

func stamp(id *string, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if *id == "" {
		*id = uuid.New().String()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

// CreateUser appends a user, enforcing username and email uniqueness.
func (db *JSONDB) CreateUser(ctx context.Context, usr *models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.Cache.Users {
		if existing.Username == usr.Username || existing.Email == usr.Email {
			return storage.ErrConflict
		}
	}

	stamp(&usr.ID, &usr.CreatedAt, &usr.UpdatedAt)
	db.Cache.Users = append(db.Cache.Users, *usr)

	return nil
}

// FindUserByID returns the user with the given id, if any.
func (db *JSONDB) FindUserByID(ctx context.Context, id string) (*models.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.ID == id {
			found := usr
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// FindUserByUsername returns the user with the given username, if any.
func (db *JSONDB) FindUserByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.Username == username {
			found := usr
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// FindUserByEmail returns the user with the given email, if any.
func (db *JSONDB) FindUserByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, usr := range db.Cache.Users {
		if usr.Email == email {
			found := usr
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// CreateTag appends a tag, enforcing slug uniqueness.
func (db *JSONDB) CreateTag(ctx context.Context, tag *models.Tag) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.Cache.Tags {
		if existing.Slug == tag.Slug {
			return storage.ErrConflict
		}
	}

	stamp(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	db.Cache.Tags = append(db.Cache.Tags, *tag)

	return nil
}

func tagMatches(tag *models.Tag, filter storage.TagFilter) bool {
	if filter.ID != "" && tag.ID != filter.ID {
		return false
	}
	if filter.Slug != "" && tag.Slug != filter.Slug {
		return false
	}

	return true
}

// FindOneTag returns the first tag matching the filter in insertion order.
func (db *JSONDB) FindOneTag(ctx context.Context, filter storage.TagFilter) (*models.Tag, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, tag := range db.Cache.Tags {
		if tagMatches(&tag, filter) {
			found := tag
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// FindAllTags returns every tag in insertion order.
func (db *JSONDB) FindAllTags(ctx context.Context) ([]models.Tag, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]models.Tag, len(db.Cache.Tags))
	copy(result, db.Cache.Tags)

	return result, nil
}

// FindTagsByIDs returns the tags for the given ids, keeping the ids' order
// and skipping dangling references.
func (db *JSONDB) FindTagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	byID := make(map[string]models.Tag, len(db.Cache.Tags))
	for _, tag := range db.Cache.Tags {
		byID[tag.ID] = tag
	}

	result := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		if tag, ok := byID[id]; ok {
			result = append(result, tag)
		}
	}

	return result, nil
}

// UpdateTag replaces the stored tag, enforcing slug uniqueness.
func (db *JSONDB) UpdateTag(ctx context.Context, tag *models.Tag) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.Cache.Tags {
		if existing.Slug == tag.Slug && existing.ID != tag.ID {
			return storage.ErrConflict
		}
	}

	for i, existing := range db.Cache.Tags {
		if existing.ID == tag.ID {
			tag.UpdatedAt = time.Now().UTC()
			db.Cache.Tags[i] = *tag
			break
		}
	}

	return nil
}

// DeleteTag removes the tag with the given id. Bookmarks referencing it keep
// their dangling ids; reads skip them when materializing.
func (db *JSONDB) DeleteTag(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.Cache.Tags {
		if existing.ID == id {
			db.Cache.Tags = append(db.Cache.Tags[:i], db.Cache.Tags[i+1:]...)
			break
		}
	}

	return nil
}

// CreateBookmark appends a bookmark.
func (db *JSONDB) CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	stamp(&bookmark.ID, &bookmark.CreatedAt, &bookmark.UpdatedAt)

	stored := *bookmark
	stored.Tags = nil
	db.Cache.Bookmarks = append(db.Cache.Bookmarks, stored)

	return nil
}

func bookmarkMatches(bookmark *models.Bookmark, filter storage.BookmarkFilter) bool {
	if filter.ID != "" && bookmark.ID != filter.ID {
		return false
	}
	if filter.UserID != "" && bookmark.UserID != filter.UserID {
		return false
	}

	return true
}

// FindOneBookmark returns the first bookmark matching the filter in insertion
// order. An empty filter matches the first stored document.
func (db *JSONDB) FindOneBookmark(ctx context.Context, filter storage.BookmarkFilter) (*models.Bookmark, bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, bookmark := range db.Cache.Bookmarks {
		if bookmarkMatches(&bookmark, filter) {
			found := bookmark
			return &found, true, nil
		}
	}

	return nil, false, nil
}

// FindAllBookmarks returns a page of bookmarks in insertion order.
func (db *JSONDB) FindAllBookmarks(ctx context.Context, query storage.BookmarkQuery) ([]models.Bookmark, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := []models.Bookmark{}
	skipped := 0
	for _, bookmark := range db.Cache.Bookmarks {
		if query.UserID != "" && bookmark.UserID != query.UserID {
			continue
		}
		if skipped < query.Start {
			skipped++
			continue
		}
		result = append(result, bookmark)
		if query.Limit > 0 && len(result) == query.Limit {
			break
		}
	}

	return result, nil
}

// UpdateBookmark replaces the stored bookmark.
func (db *JSONDB) UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.Cache.Bookmarks {
		if existing.ID == bookmark.ID {
			bookmark.UpdatedAt = time.Now().UTC()
			stored := *bookmark
			stored.Tags = nil
			db.Cache.Bookmarks[i] = stored
			break
		}
	}

	return nil
}

// DeleteBookmark removes the bookmark with the given id.
func (db *JSONDB) DeleteBookmark(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, existing := range db.Cache.Bookmarks {
		if existing.ID == id {
			db.Cache.Bookmarks = append(db.Cache.Bookmarks[:i], db.Cache.Bookmarks[i+1:]...)
			break
		}
	}

	return nil
}
