package sqlinline

// Carousel images.

const QInsertCarousel = `--sql 9b375bd2-65a7-414c-8510-8ce2663f19d3
insert into carousel_images(id, title, subtitle, image_url, link_url, display_order, is_active, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::int, $6::bool, now(), now())
returning id::text, created_at, updated_at;
`

const QListCarousels = `--sql 891930c8-b2ef-4f67-8141-c3b8228100e1
select id::text, title, subtitle, image_url, link_url, display_order, is_active, created_at, updated_at
from carousel_images
where ($1::bool = false or is_active)
order by display_order asc, created_at asc
limit $2::int offset $3::int;
`

const QCountCarousels = `--sql 740c3354-0567-45ba-8437-2d98e9cde12c
select count(*)
from carousel_images
where ($1::bool = false or is_active);
`

const QUpdateCarousel = `--sql 3e653705-5139-49cc-b9e1-837914b74e68
update carousel_images
set title = $2::text, subtitle = $3::text, image_url = $4::text, link_url = $5::text,
    display_order = $6::int, is_active = $7::bool, updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeleteCarousel = `--sql ae2a77cc-5f3f-4edb-b7ec-be99be40ab1b
delete from carousel_images
where id = $1::uuid;
`

// Flyers.

const QInsertFlyer = `--sql 98880fb7-5c5b-46eb-a1ce-b8c144563943
insert into flyers(id, title, description, image_url, link_url, display_order, is_active, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::int, $6::bool, now(), now())
returning id::text, created_at, updated_at;
`

const QListFlyers = `--sql cb205eea-f6fe-43d9-853c-fe53d9122316
select id::text, title, description, image_url, link_url, display_order, is_active, created_at, updated_at
from flyers
where ($1::bool = false or is_active)
order by display_order asc, created_at asc
limit $2::int offset $3::int;
`

const QCountFlyers = `--sql a840aa84-3b1d-4d86-8abb-6859c45780b3
select count(*)
from flyers
where ($1::bool = false or is_active);
`

const QUpdateFlyer = `--sql 8be3e6b5-a335-4d68-b2f2-e5fa3af52558
update flyers
set title = $2::text, description = $3::text, image_url = $4::text, link_url = $5::text,
    display_order = $6::int, is_active = $7::bool, updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeleteFlyer = `--sql 365d5fbd-a7fa-4b15-9520-d8798e5b999f
delete from flyers
where id = $1::uuid;
`

// Video gallery.

const QInsertVideo = `--sql 5e68aa2f-6cf7-4738-9265-45f4bcfd49b6
insert into videos(id, title, description, video_url, thumbnail_url, display_order, is_active, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text, $5::int, $6::bool, now(), now())
returning id::text, created_at, updated_at;
`

const QListVideos = `--sql 702ca99e-27b6-4f98-92e9-8d4483542fec
select id::text, title, description, video_url, thumbnail_url, display_order, is_active, created_at, updated_at
from videos
where ($1::bool = false or is_active)
order by display_order asc, created_at asc
limit $2::int offset $3::int;
`

const QCountVideos = `--sql 6e52be84-f06b-4295-980e-4c91a7a70325
select count(*)
from videos
where ($1::bool = false or is_active);
`

const QUpdateVideo = `--sql a66d7f84-d4d8-4738-8be6-398691cb24fc
update videos
set title = $2::text, description = $3::text, video_url = $4::text, thumbnail_url = $5::text,
    display_order = $6::int, is_active = $7::bool, updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeleteVideo = `--sql 714277ee-a9e1-4ef5-892e-6e42e61b4e89
delete from videos
where id = $1::uuid;
`

// Team types.

const QInsertTeamType = `--sql 803d5284-6e2f-45b2-a0d9-0daf98756425
insert into team_types(id, name, description, display_order, is_active, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, $3::int, $4::bool, now(), now())
returning id::text, created_at, updated_at;
`

const QListTeamTypes = `--sql 532259b4-6c70-457f-892c-85399bda55c9
select id::text, name, description, display_order, is_active, created_at, updated_at
from team_types
where ($1::bool = false or is_active)
order by display_order asc, name asc
limit $2::int offset $3::int;
`

const QCountTeamTypes = `--sql a57454c9-25ff-48be-84df-eeba1603aa32
select count(*)
from team_types
where ($1::bool = false or is_active);
`

const QUpdateTeamType = `--sql 5bf6c8ca-40fc-4e94-a9c1-069147385945
update team_types
set name = $2::text, description = $3::text, display_order = $4::int, is_active = $5::bool, updated_at = now()
where id = $1::uuid
returning created_at, updated_at;
`

const QDeleteTeamType = `--sql 14bbbd23-7977-4c6f-b02d-5618231a6e00
delete from team_types
where id = $1::uuid;
`

// Popup settings singleton.

const QSelectPopup = `--sql 058942e9-1483-4114-9dcb-3f55cfa097f4
select title, content, image_url, button_text, button_link, delay_seconds, is_active, updated_at
from popup_settings
where id = 1;
`

const QUpsertPopup = `--sql 63c0a7ff-0b20-4f3c-affc-44780a10fb5b
insert into popup_settings(id, title, content, image_url, button_text, button_link, delay_seconds, is_active, updated_at)
values (1, $1::text, $2::text, $3::text, $4::text, $5::text, $6::int, $7::bool, now())
on conflict (id) do update set
    title         = excluded.title,
    content       = excluded.content,
    image_url     = excluded.image_url,
    button_text   = excluded.button_text,
    button_link   = excluded.button_link,
    delay_seconds = excluded.delay_seconds,
    is_active     = excluded.is_active,
    updated_at    = now()
returning updated_at;
`
