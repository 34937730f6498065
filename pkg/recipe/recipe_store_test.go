package recipe

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"CookShare-Backend/domain"
	"CookShare-Backend/entities"
)

type fakeRecipeRepository struct {
	mu       sync.Mutex
	recipes  []*entities.Recipe
	fetchAll int
	fetchOne int
	deltas   []int

	// gate, when set, blocks GetRecipes until closed.
	gate chan struct{}
}

func (f *fakeRecipeRepository) GetRecipes(ctx context.Context) ([]*entities.Recipe, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchAll++
	return f.recipes, nil
}

func (f *fakeRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchOne++
	for _, r := range f.recipes {
		if r.ID.String() == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepository) SaveRecipe(ctx context.Context, recipe *entities.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recipes = append(f.recipes, recipe)
	return nil
}

func (f *fakeRecipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.recipes {
		if r.ID.String() == id {
			f.recipes = append(f.recipes[:i], f.recipes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepository) AdjustFavouriteCount(ctx context.Context, id string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recipes {
		if r.ID.String() == id {
			f.deltas = append(f.deltas, delta)
			r.FavouriteCount += delta
			if r.FavouriteCount < 0 {
				r.FavouriteCount = 0
			}
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepository) AddComment(ctx context.Context, comment *entities.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recipes {
		if r.ID == comment.RecipeID {
			r.Comments = append(r.Comments, *comment)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepository) RemoveComment(ctx context.Context, recipeID string, createdAt time.Time, authorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.recipes {
		if r.ID.String() != recipeID {
			continue
		}
		for i, c := range r.Comments {
			if c.CreatedAt.Equal(createdAt) && c.UserID.String() == authorID {
				r.Comments = append(r.Comments[:i], r.Comments[i+1:]...)
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRecipeRepository) fetchAllCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchAll
}

type fakeS3 struct {
	mu       sync.Mutex
	uploaded map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{uploaded: map[string][]byte{}}
}

func (f *fakeS3) UploadFile(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded[key] = body
	return f.PublicURL(key), nil
}

func (f *fakeS3) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.uploaded, key)
	return nil
}

func (f *fakeS3) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

func testRecipe(title string, difficulty, duration int, ingredients []string) *entities.Recipe {
	return &entities.Recipe{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Title:           title,
		Ingredients:     encodeList(ingredients),
		Steps:           encodeList([]string{"cook"}),
		Categories:      encodeList(nil),
		DurationMinutes: duration,
		Difficulty:      difficulty,
		AuthorUsername:  "mario",
	}
}

func newTestStore(recipes ...*entities.Recipe) (RecipeStore, *fakeRecipeRepository) {
	repo := &fakeRecipeRepository{recipes: recipes}
	return NewRecipeStore(repo, newFakeS3()), repo
}

func TestRecipeStore_GetAll_CachesList(t *testing.T) {
	store, repo := newTestStore(
		testRecipe("Test Recipe", 0, 30, []string{"chicken"}),
		testRecipe("Carbonara", 1, 20, []string{"eggs", "guanciale"}),
	)

	first := store.GetAll(context.Background())
	require.True(t, first.IsSuccess())
	assert.Len(t, first.Value(), 2)
	assert.Equal(t, 1, repo.fetchAllCount())

	second := store.GetAll(context.Background())
	require.True(t, second.IsSuccess())
	assert.Equal(t, 1, repo.fetchAllCount(), "warm cache must not refetch")
}

func TestRecipeStore_GetAll_EmptyIsNoResults(t *testing.T) {
	store, repo := newTestStore()

	result := store.GetAll(context.Background())
	require.True(t, result.IsFailure())
	assert.Equal(t, domain.ErrNoResults, result.ErrValue())

	// An empty response must not warm the cache.
	_ = store.GetAll(context.Background())
	assert.Equal(t, 2, repo.fetchAllCount())
}

func TestRecipeStore_GetAll_ConcurrentColdFetchesOnce(t *testing.T) {
	repo := &fakeRecipeRepository{
		recipes: []*entities.Recipe{testRecipe("Test Recipe", 0, 30, nil)},
		gate:    make(chan struct{}),
	}
	store := NewRecipeStore(repo, newFakeS3())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := store.GetAll(context.Background())
			assert.True(t, result.IsSuccess())
		}()
	}

	// Let the callers pile onto the in-flight fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	assert.Equal(t, 1, repo.fetchAllCount(), "concurrent cold reads must share one fetch")
}

func TestRecipeStore_GetByID(t *testing.T) {
	known := testRecipe("Test Recipe", 0, 30, nil)
	store, repo := newTestStore(known)

	// Warm cache, then a hit costs no extra remote call.
	require.True(t, store.GetAll(context.Background()).IsSuccess())
	hit := store.GetByID(context.Background(), known.ID.String())
	require.True(t, hit.IsSuccess())
	assert.Equal(t, "Test Recipe", hit.Value().Title)
	assert.Equal(t, 0, repo.fetchOne)

	missing := store.GetByID(context.Background(), uuid.NewString())
	require.True(t, missing.IsFailure())
	assert.Equal(t, domain.ErrRecipeNotFound, missing.ErrValue())
}

func TestRecipeStore_Filter(t *testing.T) {
	store, _ := newTestStore(
		testRecipe("Test Recipe", 0, 30, []string{"chicken"}),
		testRecipe("Carbonara", 2, 20, []string{"eggs"}),
	)
	ctx := context.Background()

	byTitle := store.Filter(ctx, domain.FilterRecipesRequest{
		Criterion: domain.FilterByTitle,
		Query:     "test",
	})
	require.True(t, byTitle.IsSuccess())
	require.Len(t, byTitle.Value(), 1)
	assert.Equal(t, "Test Recipe", byTitle.Value()[0].Title)

	byIngredient := store.Filter(ctx, domain.FilterRecipesRequest{
		Criterion: domain.FilterByIngredient,
		Query:     "EGGS",
	})
	require.True(t, byIngredient.IsSuccess())
	assert.Equal(t, "Carbonara", byIngredient.Value()[0].Title)

	byDifficulty := store.Filter(ctx, domain.FilterRecipesRequest{
		Criterion:  domain.FilterByDifficulty,
		Difficulty: 2,
	})
	require.True(t, byDifficulty.IsSuccess())
	assert.Len(t, byDifficulty.Value(), 1)

	noMatch := store.Filter(ctx, domain.FilterRecipesRequest{
		Criterion: domain.FilterByTitle,
		Query:     "sushi",
	})
	require.True(t, noMatch.IsFailure())
	assert.Equal(t, domain.ErrNoResults, noMatch.ErrValue())
}

func TestRecipeStore_UpdateFavouriteCount(t *testing.T) {
	known := testRecipe("Test Recipe", 0, 30, nil)
	store, repo := newTestStore(known)
	ctx := context.Background()
	require.True(t, store.GetAll(ctx).IsSuccess())

	require.True(t, store.UpdateFavouriteCount(ctx, known.ID.String(), true).IsSuccess())
	assert.Equal(t, []int{1}, repo.deltas)

	cached := store.GetByID(ctx, known.ID.String())
	require.True(t, cached.IsSuccess())
	assert.Equal(t, 1, cached.Value().FavouriteCount)

	// Removing twice never drives the cached counter below zero.
	require.True(t, store.UpdateFavouriteCount(ctx, known.ID.String(), false).IsSuccess())
	require.True(t, store.UpdateFavouriteCount(ctx, known.ID.String(), false).IsSuccess())
	cached = store.GetByID(ctx, known.ID.String())
	assert.Equal(t, 0, cached.Value().FavouriteCount)

	missing := store.UpdateFavouriteCount(ctx, uuid.NewString(), true)
	require.True(t, missing.IsFailure())
	assert.Equal(t, domain.ErrRecipeNotFound, missing.ErrValue())
}

func TestRecipeStore_GetAll_SnapshotsAreIsolated(t *testing.T) {
	known := testRecipe("Test Recipe", 0, 30, nil)
	store, _ := newTestStore(known)
	ctx := context.Background()

	snapshot := store.GetAll(ctx)
	require.True(t, snapshot.IsSuccess())
	held := snapshot.Value()

	require.True(t, store.UpdateFavouriteCount(ctx, known.ID.String(), true).IsSuccess())
	require.True(t, store.PostComment(ctx, known.ID.String(), domain.Comment{
		Author:    domain.Author{ID: uuid.NewString(), Username: "luigi"},
		Content:   "looks great",
		CreatedAt: time.Now().UTC(),
	}).IsSuccess())

	// Later writes must not reach back into a list already handed out.
	assert.Equal(t, 0, held[0].FavouriteCount)
	assert.Empty(t, held[0].Comments)

	fresh := store.GetAll(ctx)
	require.True(t, fresh.IsSuccess())
	assert.Equal(t, 1, fresh.Value()[0].FavouriteCount)
	assert.Len(t, fresh.Value()[0].Comments, 1)
}

func TestRecipeStore_DeleteComment_LeavesSnapshotsIntact(t *testing.T) {
	known := testRecipe("Test Recipe", 0, 30, nil)
	store, _ := newTestStore(known)
	ctx := context.Background()
	require.True(t, store.GetAll(ctx).IsSuccess())

	first := domain.Comment{
		Author:    domain.Author{ID: uuid.NewString(), Username: "luigi"},
		Content:   "first",
		CreatedAt: time.Now().UTC(),
	}
	second := domain.Comment{
		Author:    domain.Author{ID: uuid.NewString(), Username: "peach"},
		Content:   "second",
		CreatedAt: time.Now().UTC().Add(time.Minute),
	}
	require.True(t, store.PostComment(ctx, known.ID.String(), first).IsSuccess())
	require.True(t, store.PostComment(ctx, known.ID.String(), second).IsSuccess())

	held := store.GetByID(ctx, known.ID.String())
	require.True(t, held.IsSuccess())
	require.Len(t, held.Value().Comments, 2)

	require.True(t, store.DeleteComment(ctx, known.ID.String(), first.CreatedAt, first.Author.ID).IsSuccess())

	// The held copy keeps both comments in their original order.
	require.Len(t, held.Value().Comments, 2)
	assert.Equal(t, "first", held.Value().Comments[0].Content)
	assert.Equal(t, "second", held.Value().Comments[1].Content)

	fresh := store.GetByID(ctx, known.ID.String())
	require.Len(t, fresh.Value().Comments, 1)
	assert.Equal(t, "second", fresh.Value().Comments[0].Content)
}

func TestRecipeStore_ConcurrentReadersAndWriters(t *testing.T) {
	known := testRecipe("Test Recipe", 0, 30, nil)
	store, _ := newTestStore(known)
	ctx := context.Background()
	require.True(t, store.GetAll(ctx).IsSuccess())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			result := store.GetAll(ctx)
			assert.True(t, result.IsSuccess())
			for _, r := range result.Value() {
				_ = r.FavouriteCount
				for _, c := range r.Comments {
					_ = c.Content
				}
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			store.UpdateFavouriteCount(ctx, known.ID.String(), i%2 == 0)
			store.PostComment(ctx, known.ID.String(), domain.Comment{
				Author:    domain.Author{ID: known.UserID.String(), Username: "mario"},
				Content:   "hi",
				CreatedAt: time.Now().UTC(),
			})
		}
	}()
	wg.Wait()
}

func TestRecipeStore_Delete_RemovesStoredImage(t *testing.T) {
	repo := &fakeRecipeRepository{}
	s3 := newFakeS3()
	store := NewRecipeStore(repo, s3)
	ctx := context.Background()

	author := domain.Author{ID: uuid.NewString(), Username: "mario"}
	saved := store.Save(ctx, domain.SaveRecipeRequest{
		Title:      "Test Recipe",
		Steps:      []string{"cook"},
		ImageBytes: []byte{0xff, 0xd8},
	}, author)
	require.True(t, saved.IsSuccess())
	key := fmt.Sprintf("recipes/%s.jpg", saved.Value())
	require.Contains(t, s3.uploaded, key)

	require.True(t, store.Delete(ctx, saved.Value()).IsSuccess())
	assert.NotContains(t, s3.uploaded, key)
	assert.Empty(t, repo.recipes)
}

func TestRecipeStore_Save_UploadsImage(t *testing.T) {
	repo := &fakeRecipeRepository{}
	s3 := newFakeS3()
	store := NewRecipeStore(repo, s3)

	author := domain.Author{ID: uuid.NewString(), Username: "mario"}
	saved := store.Save(context.Background(), domain.SaveRecipeRequest{
		Title:       "Test Recipe",
		Ingredients: []string{"chicken"},
		Steps:       []string{"cook"},
		ImageBytes:  []byte{0xff, 0xd8},
	}, author)

	require.True(t, saved.IsSuccess())
	key := fmt.Sprintf("recipes/%s.jpg", saved.Value())
	assert.Contains(t, s3.uploaded, key)
	require.Len(t, repo.recipes, 1)
	assert.Equal(t, "mario", repo.recipes[0].AuthorUsername)
}

func TestRecipeStore_ClearCache(t *testing.T) {
	store, repo := newTestStore(testRecipe("Test Recipe", 0, 30, nil))
	ctx := context.Background()

	require.True(t, store.GetAll(ctx).IsSuccess())
	store.ClearCache()
	require.True(t, store.GetAll(ctx).IsSuccess())

	assert.Equal(t, 2, repo.fetchAllCount())
}

func TestRecipeStore_Comments(t *testing.T) {
	known := testRecipe("Test Recipe", 0, 30, nil)
	store, _ := newTestStore(known)
	ctx := context.Background()
	require.True(t, store.GetAll(ctx).IsSuccess())

	comment := domain.Comment{
		Author:    domain.Author{ID: uuid.NewString(), Username: "luigi"},
		Content:   "looks great",
		CreatedAt: time.Now().UTC(),
	}
	require.True(t, store.PostComment(ctx, known.ID.String(), comment).IsSuccess())

	cached := store.GetByID(ctx, known.ID.String())
	require.True(t, cached.IsSuccess())
	require.Len(t, cached.Value().Comments, 1)
	assert.Equal(t, "looks great", cached.Value().Comments[0].Content)

	deleted := store.DeleteComment(ctx, known.ID.String(), comment.CreatedAt, comment.Author.ID)
	require.True(t, deleted.IsSuccess())
	cached = store.GetByID(ctx, known.ID.String())
	assert.Empty(t, cached.Value().Comments)

	again := store.DeleteComment(ctx, known.ID.String(), comment.CreatedAt, comment.Author.ID)
	require.True(t, again.IsFailure())
	assert.Equal(t, domain.ErrCommentNotFound, again.ErrValue())
}
