package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ideahub-dev/ideahub/internal/api"
	"github.com/ideahub-dev/ideahub/internal/domain"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
	"github.com/ideahub-dev/ideahub/internal/service"
	"github.com/ideahub-dev/ideahub/internal/utils"
)

const defaultPage = 1

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	body, images, documents, cleanup, err := h.parsePostForm(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer cleanup()

	post, err := h.post.Create(service.CreatePostInput{
		Title:        body.Title,
		Description:  body.Description,
		AuthorId:     user.Id,
		CategoryId:   body.CategoryId,
		AuthorHidden: body.AuthorHidden,
		Images:       images,
		Documents:    documents,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	view := service.ProjectPost(post, user)
	writeJSONStatus(w, http.StatusCreated, api.PostResponse{Post: &view})
}

// parsePostForm decodes the multipart create form: the "json" field carries
// the post fields, "images" and "documents" carry the files. Every file is
// validated before anything is returned.
func (h *Handler) parsePostForm(r *http.Request) (body api.CreatePostRequest, images, documents []service.Upload, cleanup func(), err error) {
	cleanup = func() {}

	maxMemory := h.cfg.Public.MaxAttachmentSize
	if maxMemory <= 0 {
		maxMemory = 10 << 20
	}
	if err = r.ParseMultipartForm(maxMemory); err != nil {
		err = internal_errors.BadRequest("Body is not a valid multipart form")
		return
	}

	jsonPayload := r.FormValue("json")
	if jsonPayload == "" {
		err = internal_errors.BadRequest("Missing json payload in multipart form")
		return
	}
	if err = utils.DecodeValidate(io.NopCloser(strings.NewReader(jsonPayload)), &body); err != nil {
		return
	}

	var opened []io.Closer
	cleanup = func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range r.MultipartForm.File["images"] {
		file, openErr := header.Open()
		if openErr != nil {
			err = internal_errors.BadRequest("Can't read uploaded file")
			return
		}
		opened = append(opened, file)

		data, checkErr := h.validator.CheckImage(header.Filename, contentTypeOf(header), header.Size, file)
		if checkErr != nil {
			err = checkErr
			return
		}
		images = append(images, service.Upload{
			Filename:    header.Filename,
			ContentType: contentTypeOf(header),
			Size:        header.Size,
			Data:        data,
		})
	}

	for _, header := range r.MultipartForm.File["documents"] {
		if err = h.validator.CheckDocument(header.Filename, contentTypeOf(header), header.Size); err != nil {
			return
		}
		file, openErr := header.Open()
		if openErr != nil {
			err = internal_errors.BadRequest("Can't read uploaded file")
			return
		}
		opened = append(opened, file)
		documents = append(documents, service.Upload{
			Filename:    header.Filename,
			ContentType: contentTypeOf(header),
			Size:        header.Size,
			Data:        file,
		})
	}

	return
}

func contentTypeOf(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, comments, err := h.post.Get(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PostResponse{Post: post, Comments: comments})
}

// ViewPost bumps the view counter and returns the fresh projection.
func (h *Handler) ViewPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.post.View(id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PostResponse{Post: post})
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := defaultPage
	var err error
	if pageQuery := query.Get("page"); pageQuery != "" {
		if page, err = parseIntParam(pageQuery, "page"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	limit := h.cfg.Public.PostsPerPage
	if limitQuery := query.Get("limit"); limitQuery != "" {
		if limit, err = parseIntParam(limitQuery, "limit"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var categoryIds []domain.CategoryId
	for _, raw := range query["category"] {
		id, err := parseIntParam(raw, "category")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		categoryIds = append(categoryIds, int64(id))
	}

	result, err := h.post.List(service.ListPostsQuery{
		Page:        page,
		Limit:       limit,
		Search:      query.Get("search"),
		CategoryIds: categoryIds,
		SortBy:      query.Get("sort_by"),
		SortOrder:   query.Get("sort_order"),
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, result)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.UpdatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	message, err := h.post.Update(id, user.Id, service.PostUpdate{
		Title:        body.Title,
		Description:  body.Description,
		CategoryId:   body.CategoryId,
		AuthorHidden: body.AuthorHidden,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.MessageResponse{Message: message})
}

// HidePost soft-deletes: the record survives, reads show a placeholder.
func (h *Handler) HidePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.post.SoftHide(id, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.post.HardDelete(id, user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) BulkDeletePosts(w http.ResponseWriter, r *http.Request) {
	var body api.BulkDeleteRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	results := h.post.BulkDelete(body.Ids)
	writeJSON(w, api.BulkDeleteResponse{Results: results})
}

func (h *Handler) ReactToPost(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.ReactionRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	message, err := h.post.React(id, user.Id, service.Reaction(body.Reaction))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.MessageResponse{Message: message})
}
