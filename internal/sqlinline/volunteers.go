package sqlinline

const QInsertVolunteer = `--sql ddd1ac6b-0855-4492-9e2a-4117659ee92f
insert into volunteer_applications(id, first_name, last_name, email, phone, address, city, state, zip, country, answers, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::text, $6::text, $7::text, $8::text, $9::text,
        coalesce($10::jsonb, '{}'::jsonb), now())
returning id::text, created_at;
`

const QSelectVolunteerByID = `--sql 53b81690-7be3-4ee8-a691-ce5b76806ef7
select id::text, first_name, last_name, email, phone, address, city, state, zip, country, answers, created_at
from volunteer_applications
where id = $1::uuid;
`

const QListVolunteers = `--sql fcba2b2c-d66b-4d16-bb43-c6c5b56af06d
select id::text, first_name, last_name, email, phone, address, city, state, zip, country, answers, created_at
from volunteer_applications
order by created_at desc
limit $1::int offset $2::int;
`

const QCountVolunteers = `--sql c0d78271-29a5-4086-ba23-0b17f5d57410
select count(*)
from volunteer_applications;
`
