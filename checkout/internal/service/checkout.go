package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/houseofabhilasha/storefront/checkout/internal/mail"
	"github.com/houseofabhilasha/storefront/checkout/pkg/request"
	"github.com/houseofabhilasha/storefront/checkout/pkg/response"
	"github.com/houseofabhilasha/storefront/internal/config"
	inErr "github.com/houseofabhilasha/storefront/internal/errors"
	"github.com/houseofabhilasha/storefront/internal/log"
	inOtel "github.com/houseofabhilasha/storefront/internal/otel"
	"github.com/houseofabhilasha/storefront/internal/repository"
)

const orderStatusPending = "pending"

type IdentityStore interface {
	FindUserByEmail(c context.Context, email string) (repository.User, error)
	InsertUser(
		c context.Context,
		email string,
		passwordHash string,
		emailConfirmed bool,
	) (repository.User, error)
}

type ProfileStore interface {
	UpsertProfile(c context.Context, profile repository.Profile) error
}

type OrderStore interface {
	CreateOrder(
		c context.Context,
		order repository.Order,
		items []repository.OrderItem,
	) (repository.Order, error)
}

type CheckoutService struct {
	users    IdentityStore
	profiles ProfileStore
	orders   OrderStore
	mailer   mail.Mailer
	mailCfg  config.Mail
}

func NewCheckoutService(
	users IdentityStore,
	profiles ProfileStore,
	orders OrderStore,
	mailer mail.Mailer,
	mailCfg config.Mail,
) *CheckoutService {
	return &CheckoutService{
		users:    users,
		profiles: profiles,
		orders:   orders,
		mailer:   mailer,
		mailCfg:  mailCfg,
	}
}

// GuestCheckout provisions an account for the email when none exists, writes
// the order with its items, then fires best-effort notification mail. The
// order insert is transactional; a freshly provisioned account is kept even
// when the order insert fails afterwards.
func (s *CheckoutService) GuestCheckout(
	c context.Context,
	reqBody request.GuestCheckout,
) (response.GuestCheckout, error) {
	c, span := inOtel.Tracer.Start(c, "CheckoutService GuestCheckout")
	defer span.End()

	email := strings.ToLower(reqBody.Email)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService GuestCheckout").
		Str(log.KeyEmail, email).
		Logger()
	c = logger.WithContext(c)

	if len(reqBody.Items) == 0 {
		err := inErr.ErrEmptyCart
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.GuestCheckout{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "find existing account").Logger()
	logger.Info().Msg("finding existing account")
	isNewAccount := false
	tempPassword := ""
	user, err := s.users.FindUserByEmail(c, email)
	switch {
	case err == nil:
		logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("found existing account")
	case errors.Is(err, inErr.ErrUserNotFound):
		logger.Info().Msg("no account found, provisioning one")
		user, tempPassword, err = s.provisionAccount(c, email)
		if err != nil {
			err = fmt.Errorf("%w: %w", inErr.ErrProvisioning, err)
			logger.Error().Err(err).Msg(err.Error())
			inOtel.RecordError(err, span)
			return response.GuestCheckout{}, err
		}
		isNewAccount = true
		logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("provisioned account")
	default:
		err = fmt.Errorf("%w: %w", inErr.ErrProvisioning, err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.GuestCheckout{}, err
	}

	logger = logger.With().
		Str(log.KeyUserID, user.ID.String()).
		Str(log.KeyProcess, "upsert profile").
		Logger()
	logger.Info().Msg("upserting profile")
	err = s.profiles.UpsertProfile(c, repository.Profile{
		UserID:    user.ID,
		FirstName: reqBody.FirstName,
		LastName:  reqBody.LastName,
		Email:     email,
		Address:   reqBody.Address,
		ContactNo: reqBody.ContactNo,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", inErr.ErrProvisioning, err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.GuestCheckout{}, err
	}
	logger.Info().Msg("upserted profile")

	logger = logger.With().Str(log.KeyProcess, "create order").Logger()
	logger.Info().Msg("creating order")
	items := make([]repository.OrderItem, 0, len(reqBody.Items))
	for _, item := range reqBody.Items {
		items = append(items, repository.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}
	order, err := s.orders.CreateOrder(c, repository.Order{
		UserID:          user.ID,
		Status:          orderStatusPending,
		PaymentMethod:   reqBody.PaymentMethod,
		TotalAmount:     reqBody.TotalAmount,
		ShippingAddress: reqBody.Address,
		ContactNo:       reqBody.ContactNo,
		Notes:           reqBody.Notes,
	}, items)
	if err != nil {
		err = fmt.Errorf("%w: %w", inErr.ErrOrderPersistence, err)
		logger.Error().Err(err).Msg(err.Error())
		inOtel.RecordError(err, span)
		return response.GuestCheckout{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msg("created order")

	s.notify(c, mail.OrderMailData{
		OrderID:      order.ID.String(),
		Name:         strings.TrimSpace(reqBody.FirstName + " " + reqBody.LastName),
		Email:        email,
		TotalAmount:  order.TotalAmount,
		IsNewAccount: isNewAccount,
		TempPassword: tempPassword,
	})

	res := response.GuestCheckout{OrderID: order.ID, IsNewAccount: isNewAccount}
	if isNewAccount {
		res.TempPassword = tempPassword
	}
	return res, nil
}

func (s *CheckoutService) provisionAccount(
	c context.Context,
	email string,
) (repository.User, string, error) {
	c, span := inOtel.Tracer.Start(c, "CheckoutService provisionAccount")
	defer span.End()

	tempPassword, err := generateTempPassword()
	if err != nil {
		inOtel.RecordError(err, span)
		return repository.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing temp password with error=%w", err)
		inOtel.RecordError(err, span)
		return repository.User{}, "", err
	}

	user, err := s.users.InsertUser(c, email, string(hash), true)
	if err != nil {
		err = fmt.Errorf("failed inserting provisioned user with error=%w", err)
		inOtel.RecordError(err, span)
		return repository.User{}, "", err
	}
	return user, tempPassword, nil
}

// notify sends the customer confirmation and the operator notification. Both
// sends are best effort: failures are logged and swallowed so a placed order
// is never failed by mail delivery.
func (s *CheckoutService) notify(c context.Context, data mail.OrderMailData) {
	c, span := inOtel.Tracer.Start(c, "CheckoutService notify")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService notify").
		Str(log.KeyOrderID, data.OrderID).
		Logger()

	subject, content, err := mail.CustomerOrderMail(data)
	if err != nil {
		logger.Warn().Err(err).Msg("failed rendering customer mail")
	} else if err := s.mailer.Send(c, mail.Message{
		To:      data.Email,
		Subject: subject,
		Content: content,
	}); err != nil {
		logger.Warn().Err(err).Msg("failed sending customer mail")
	}

	subject, content, err = mail.OperatorOrderMail(data)
	if err != nil {
		logger.Warn().Err(err).Msg("failed rendering operator mail")
		return
	}
	if err := s.mailer.Send(c, mail.Message{
		To:      s.mailCfg.AdminAddress,
		Subject: subject,
		Content: content,
	}); err != nil {
		logger.Warn().Err(err).Msg("failed sending operator mail")
	}
}

var (
	_ IdentityStore = (*repository.UserRepository)(nil)
	_ ProfileStore  = (*repository.ProfileRepository)(nil)
	_ OrderStore    = (*repository.OrderRepository)(nil)
)
