package catalogsvc

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	catalogdto "github.com/Kevindaniel6700/movie-time/internal/api/catalog/dto"
)

// SearchType là nhóm field mà truy vấn tìm kiếm được áp dụng
type SearchType string

const (
	SearchAll      SearchType = "all"
	SearchTitle    SearchType = "title"
	SearchActor    SearchType = "actor"
	SearchDirector SearchType = "director"
)

// ParseSearchType chuẩn hóa tham số type (không phân biệt hoa thường), rỗng là all.
// Giá trị lạ được giữ nguyên và không bật nhóm nào.
func ParseSearchType(raw string) SearchType {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return SearchAll
	}
	return SearchType(t)
}

func (t SearchType) includes(category SearchType) bool {
	return t == SearchAll || t == category
}

// nameRegex khớp chuỗi con không phân biệt hoa thường, ký tự đặc biệt trong q được match nguyên văn
func nameRegex(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}

// BuildSearchFilter dựng filter tìm phim cho q và nhóm searchType.
// matchNone = true khi q có giá trị nhưng không nhóm nào tạo được điều kiện,
// caller phải trả rỗng thay vì trả toàn bộ phim.
func (s *MovieService) BuildSearchFilter(ctx context.Context, q string, searchType SearchType) (filter bson.M, matchNone bool, err error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return bson.M{}, false, nil
	}

	conditions := bson.A{}
	if searchType.includes(SearchTitle) {
		conditions = append(conditions, bson.M{"title": nameRegex(q)})
	}
	if searchType.includes(SearchActor) {
		ids, err := unionReferenceIDs(ctx, s.actors.Collection(), bson.M{"name": nameRegex(q)}, "movie_ids")
		if err != nil {
			return nil, false, err
		}
		if len(ids) > 0 {
			conditions = append(conditions, bson.M{"_id": bson.M{"$in": ids}})
		}
	}
	if searchType.includes(SearchDirector) {
		ids, err := unionReferenceIDs(ctx, s.directors.Collection(), bson.M{"name": nameRegex(q)}, "movie_ids")
		if err != nil {
			return nil, false, err
		}
		if len(ids) > 0 {
			conditions = append(conditions, bson.M{"_id": bson.M{"$in": ids}})
		}
	}

	if len(conditions) == 0 {
		return nil, true, nil
	}
	return bson.M{"$or": conditions}, false, nil
}

// SearchMovies tìm phim theo tiêu đề, tên diễn viên hoặc tên đạo diễn.
// q rỗng trả về toàn bộ phim.
func (s *MovieService) SearchMovies(ctx context.Context, q string, searchType SearchType) ([]catalogdto.MovieView, error) {
	filter, matchNone, err := s.BuildSearchFilter(ctx, q, searchType)
	if err != nil {
		return nil, err
	}
	if matchNone {
		return []catalogdto.MovieView{}, nil
	}

	movies, err := s.Find(ctx, filter, nil)
	if err != nil {
		return nil, err
	}
	return s.formatter.FormatMovies(ctx, movies)
}
