package models

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "contactbook/pkg/domain-errors"
)

type RecordSuite struct {
	suite.Suite
	record *Record
}

func TestRecordSuite(t *testing.T) {
	suite.Run(t, new(RecordSuite))
}

func (s *RecordSuite) SetupTest() {
	r, err := NewRecord("Alice")
	s.Require().NoError(err)
	s.record = r
}

func (s *RecordSuite) phones() []string {
	out := []string{}
	for _, p := range s.record.Phones() {
		out = append(out, p.String())
	}
	return out
}

func (s *RecordSuite) TestNewRecord() {
	s.Run("stores name verbatim with empty state", func() {
		r, err := NewRecord("  Mary Jane ")
		s.Require().NoError(err)
		s.Equal("  Mary Jane ", r.Name())
		s.Empty(r.Phones())
		_, ok := r.Birthday()
		s.False(ok)
		s.False(r.ID().IsNil())
	})

	s.Run("rejects empty name", func() {
		_, err := NewRecord("")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *RecordSuite) TestPhones() {
	s.Run("add keeps insertion order and duplicates", func() {
		s.Require().NoError(s.record.AddPhone("1111111111"))
		s.Require().NoError(s.record.AddPhone("2222222222"))
		s.Require().NoError(s.record.AddPhone("1111111111"))
		s.Equal([]string{"1111111111", "2222222222", "1111111111"}, s.phones())
	})

	s.Run("invalid phone leaves list unchanged", func() {
		err := s.record.AddPhone("12345")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidPhoneFormat))
		s.Len(s.record.Phones(), 3)
	})

	s.Run("edit replaces only the first match", func() {
		s.Require().NoError(s.record.EditPhone("1111111111", "3333333333"))
		s.Equal([]string{"3333333333", "2222222222", "1111111111"}, s.phones())
	})

	s.Run("edit of absent phone is a silent no-op", func() {
		before := s.phones()
		s.Require().NoError(s.record.EditPhone("9999999999", "not-even-valid"))
		s.Equal(before, s.phones())
	})

	s.Run("edit validates the replacement", func() {
		before := s.phones()
		err := s.record.EditPhone("2222222222", "22-22")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidPhoneFormat))
		s.Equal(before, s.phones())
	})

	s.Run("find returns the first exact match", func() {
		p, ok := s.record.FindPhone("2222222222")
		s.True(ok)
		s.Equal(PhoneNumber("2222222222"), p)

		_, ok = s.record.FindPhone("222222222")
		s.False(ok)
	})

	s.Run("remove deletes the first match only", func() {
		s.Require().NoError(s.record.AddPhone("2222222222"))
		s.record.RemovePhone("2222222222")
		s.Equal([]string{"3333333333", "1111111111", "2222222222"}, s.phones())
	})

	s.Run("remove of absent phone is a no-op", func() {
		s.record.RemovePhone("0000000000")
		s.Len(s.record.Phones(), 3)
	})

	s.Run("returned slice is a copy", func() {
		phones := s.record.Phones()
		phones[0] = "0000000000"
		s.Equal("3333333333", s.phones()[0])
	})
}

func (s *RecordSuite) TestBirthday() {
	s.Run("unset birthday is described as not set", func() {
		s.Equal("Birthday: not set", s.record.DescribeBirthday())
	})

	s.Run("invalid date leaves birthday unset", func() {
		err := s.record.AddBirthday("1990-06-12")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidDateFormat))
		_, ok := s.record.Birthday()
		s.False(ok)
	})

	s.Run("first set succeeds", func() {
		s.Require().NoError(s.record.AddBirthday("12-06-1990"))
		s.Equal("Birthday: 12-06-1990", s.record.DescribeBirthday())
	})

	s.Run("second set always fails regardless of value", func() {
		for _, raw := range []string{"12-06-1990", "01-01-2000", "garbage"} {
			err := s.record.AddBirthday(raw)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeBirthdayAlreadySet), raw)
		}
		b, _ := s.record.Birthday()
		s.Equal("12-06-1990", b.String())
	})
}

func (s *RecordSuite) TestString() {
	s.Equal("Contact name: Alice, Birthday: not set, phones: ", s.record.String())

	s.Require().NoError(s.record.AddPhone("0501234567"))
	s.Require().NoError(s.record.AddPhone("0507654321"))
	s.Require().NoError(s.record.AddBirthday("01-02-1993"))
	s.Equal("Contact name: Alice, Birthday: 01-02-1993, phones: 0501234567; 0507654321", s.record.String())
}

func (s *RecordSuite) TestClone() {
	s.Require().NoError(s.record.AddPhone("0501234567"))
	s.Require().NoError(s.record.AddBirthday("01-02-1993"))

	clone := s.record.Clone()
	s.Equal(s.record.String(), clone.String())
	s.Equal(s.record.ID(), clone.ID())

	s.Require().NoError(clone.AddPhone("0500000000"))
	s.Len(s.record.Phones(), 1)
}
