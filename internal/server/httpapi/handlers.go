package httpapi

import (
	"io"
	"net/http"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/services"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r refreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type pictureURLResponse struct {
	URL string `json:"url"`
}

// bind decodes a JSON body into dst and runs its validation.
func bind(c *gin.Context, dst validation.Validatable) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return common.BadRequest("invalid request body: %v", err)
	}
	if err := dst.Validate(); err != nil {
		return &common.Error{Class: common.ErrorValidation, Msg: err.Error(), Cause: err}
	}
	return nil
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	pair, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		s.writeError(c, err)
		return
	}
	pair, err := s.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pair)
}

func (s *Server) createAccount(c *gin.Context) {
	var in services.CreateAccountInput
	if err := bind(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	account, err := s.accounts.Create(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (s *Server) listAccounts(c *gin.Context, _ auth.Identity) {
	p, err := page(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	list, err := s.accounts.List(c.Request.Context(), p)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getAccount(c *gin.Context, _ auth.Identity) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	account, err := s.accounts.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) updateAccount(c *gin.Context, identity auth.Identity) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var in services.UpdateAccountInput
	if err := bind(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	account, err := s.accounts.Update(c.Request.Context(), id, in, identity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) deleteAccount(c *gin.Context, identity auth.Identity) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.accounts.Delete(c.Request.Context(), id, identity); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) uploadPicture(c *gin.Context, identity auth.Identity) {
	fh, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, common.BadRequest("multipart field \"file\" is required"))
		return
	}
	if fh.Size > services.MaxPictureSize {
		s.writeError(c, common.Unprocessable("file too large"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, services.MaxPictureSize+1))
	if err != nil {
		s.writeError(c, err)
		return
	}

	account, err := s.accounts.UploadPicture(c.Request.Context(), identity, data)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (s *Server) pictureURL(c *gin.Context, _ auth.Identity) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	url, err := s.accounts.PictureURL(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pictureURLResponse{URL: url})
}

func (s *Server) listNotes(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	list, err := s.notes.List(c.Request.Context(), p)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getNote(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	note, err := s.notes.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) createNote(c *gin.Context, identity auth.Identity) {
	var in services.CreateNoteInput
	if err := bind(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	note, err := s.notes.Create(c.Request.Context(), in, identity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (s *Server) updateNote(c *gin.Context, identity auth.Identity) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	var in services.UpdateNoteInput
	if err := bind(c, &in); err != nil {
		s.writeError(c, err)
		return
	}
	note, err := s.notes.Update(c.Request.Context(), id, in, identity)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context, identity auth.Identity) {
	id, err := pathID(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.notes.Delete(c.Request.Context(), id, identity); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
