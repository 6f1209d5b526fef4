package catalogsvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Kevindaniel6700/movie-time/internal/common"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/utility"
)

// MovieFilterParams là các tham số lọc phim, chuỗi rỗng hoặc nil nghĩa là không lọc theo field đó
type MovieFilterParams struct {
	GenreID     string
	ActorID     string
	DirectorID  string
	ReleaseYear *int
}

// BuildMovieFilter ghép các điều kiện lọc phim bằng AND.
// genre/actor khớp khi mảng tham chiếu chứa id, director khớp chính xác.
// Năm phát hành 0 được coi như không truyền. Không có tham số nào thì khớp tất cả.
func BuildMovieFilter(params MovieFilterParams) (bson.M, error) {
	filter := bson.M{}

	if params.GenreID != "" {
		oid, err := utility.DecodeObjectID(params.GenreID)
		if err != nil {
			return nil, err
		}
		filter["genre_ids"] = oid
	}
	if params.ActorID != "" {
		oid, err := utility.DecodeObjectID(params.ActorID)
		if err != nil {
			return nil, err
		}
		filter["actor_ids"] = oid
	}
	if params.DirectorID != "" {
		oid, err := utility.DecodeObjectID(params.DirectorID)
		if err != nil {
			return nil, err
		}
		filter["director_id"] = oid
	}
	if params.ReleaseYear != nil && *params.ReleaseYear != 0 {
		filter["release_year"] = *params.ReleaseYear
	}

	return filter, nil
}

// BuildActorFilter lọc diễn viên theo phim (qua back-link movie_ids)
func BuildActorFilter(movieID string) (bson.M, error) {
	filter := bson.M{}
	if movieID != "" {
		oid, err := utility.DecodeObjectID(movieID)
		if err != nil {
			return nil, err
		}
		filter["movie_ids"] = oid
	}
	return filter, nil
}

// BuildDirectorFilter hiện chưa có điều kiện lọc nào cho đạo diễn
func BuildDirectorFilter() bson.M {
	return bson.M{}
}

// BuildGenreFilter hiện chưa có điều kiện lọc nào cho thể loại
func BuildGenreFilter() bson.M {
	return bson.M{}
}

// ResolveActorIDsByGenre quét các phim thuộc thể loại và hợp các actor_ids của chúng.
// Actor không lưu thể loại nên lọc theo thể loại phải đi qua collection movies.
// Không có phim nào khớp thì trả về slice rỗng, không phải lỗi.
// TODO: quét toàn bộ phim mỗi request, cần đo tải trước khi quyết định có duy trì index phụ genre -> actor hay không.
func ResolveActorIDsByGenre(ctx context.Context, movies database.Collection, genreID string) ([]primitive.ObjectID, error) {
	oid, err := utility.DecodeObjectID(genreID)
	if err != nil {
		return nil, err
	}

	return unionReferenceIDs(ctx, movies, bson.M{"genre_ids": oid}, "actor_ids")
}

// unionReferenceIDs lấy field mảng ObjectID của mọi document khớp filter và hợp lại (bỏ trùng, giữ thứ tự gặp đầu tiên)
func unionReferenceIDs(ctx context.Context, col database.Collection, filter bson.M, field string) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{field: 1})
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	ids := []primitive.ObjectID{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, common.NewStoreError(err)
		}
		refs, ok := doc[field].(bson.A)
		if !ok {
			continue
		}
		for _, ref := range refs {
			if oid, ok := ref.(primitive.ObjectID); ok {
				ids = append(ids, oid)
			}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}

	return utility.UniqueObjectIDs(ids), nil
}

// ActorListFilter ghép bộ lọc theo phim với bộ lọc theo thể loại cho danh sách diễn viên.
// matchNone = true khi thể loại không dẫn tới diễn viên nào, caller trả danh sách rỗng mà không cần query.
func ActorListFilter(ctx context.Context, movies database.Collection, movieID, genreID string) (filter bson.M, matchNone bool, err error) {
	filter, err = BuildActorFilter(movieID)
	if err != nil {
		return nil, false, err
	}
	if genreID == "" {
		return filter, false, nil
	}

	actorIDs, err := ResolveActorIDsByGenre(ctx, movies, genreID)
	if err != nil {
		return nil, false, err
	}
	if len(actorIDs) == 0 {
		return filter, true, nil
	}
	filter["_id"] = bson.M{"$in": actorIDs}
	return filter, false, nil
}
